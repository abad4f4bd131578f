package models

import "time"

// ResponseModel Base response structure that can be reused
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// EntryData wraps a single entry payload.
type EntryData struct {
	Entry interface{} `json:"entry"`
}

// ListData wraps a list payload.
type ListData struct {
	List          interface{} `json:"list"`
	LimitExceeded bool        `json:"limitExceeded"`
}

// ResponseCurrentTime returns the current time in epoch milliseconds, the
// timestamp unit used throughout the API.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}

// NewEntryResponse builds a 200 response around a single entry.
func NewEntryResponse(entry interface{}) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(),
		Data:        EntryData{Entry: entry},
		Text:        "OK",
		Version:     2,
	}
}

// NewListResponse builds a 200 response around a list of entries.
func NewListResponse(list interface{}) ResponseModel {
	return ResponseModel{
		Code:        200,
		CurrentTime: ResponseCurrentTime(),
		Data:        ListData{List: list},
		Text:        "OK",
		Version:     2,
	}
}
