package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"route-570", "route-570"},
		{"route 570", "route_570"},
		{"a.b", "a_b"},
		{"a>b*c", "a_b_c"},
		{"a/b", "a_b"},
		{"  route-1  ", "route-1"},
		{"", "_"},
		{"   ", "_"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, subjectToken(tt.in), "input %q", tt.in)
	}
}
