package models

// Direction identifies which of the two opposite-direction stop sequences
// along a bidirectional route a vehicle is traversing.
type Direction string

const (
	DirectionGoing  Direction = "going"
	DirectionComing Direction = "coming"
)
