package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIDFromParams(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"plain id", "/api/test/route-570", "route-570"},
		{"json suffix stripped", "/api/test/route-570.json", "route-570"},
		{"empty id", "/api/test/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/test/{id}", func(w http.ResponseWriter, r *http.Request) {
				got = ExtractIDFromParams(r, "id")
			})
			mux.HandleFunc("GET /api/test/", func(w http.ResponseWriter, r *http.Request) {
				got = ExtractIDFromParams(r, "id")
			})

			req := httptest.NewRequest("GET", tt.path, nil)
			mux.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseFloatParam(t *testing.T) {
	params := url.Values{}
	params.Set("lat", "13.07")
	params.Set("bad", "not-a-number")

	lat, fieldErrors := ParseFloatParam(params, "lat", nil)
	assert.Equal(t, 13.07, lat)
	assert.Empty(t, fieldErrors)

	_, fieldErrors = ParseFloatParam(params, "bad", fieldErrors)
	require.Contains(t, fieldErrors, "bad")

	missing, fieldErrors := ParseFloatParam(params, "missing", fieldErrors)
	assert.Zero(t, missing)
	assert.Len(t, fieldErrors, 1)
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("route-570"))
	assert.NoError(t, ValidateID("driver_1.a"))
	assert.Error(t, ValidateID(""))
	assert.Error(t, ValidateID("bad id"))
	assert.Error(t, ValidateID("<script>"))
}

func TestValidateLocationParams(t *testing.T) {
	assert.Empty(t, ValidateLocationParams(13.07, 80.19, 500))

	fieldErrors := ValidateLocationParams(91, -181, 20000)
	assert.Contains(t, fieldErrors, "lat")
	assert.Contains(t, fieldErrors, "lon")
	assert.Contains(t, fieldErrors, "radius")
}
