package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ch-finder/internal/db"
	"github.com/ch-finder/internal/engine"
	"github.com/ch-finder/internal/postcode"
)

// Invalid requests must be rejected during validation, before any table
// is touched. The handler here wraps a connection with no live database;
// reaching the database would panic.
func TestSearchRejectsBadInput(t *testing.T) {
	h := &SearchHandler{Searcher: engine.NewSearcher(&db.Connection{})}

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed json", `{"postcode":`, http.StatusBadRequest},
		{"missing postcode", `{"radius_miles": 10}`, http.StatusBadRequest},
		{"bad radius", `{"postcode": "SW1A 1AA", "radius_miles": 900}`, http.StatusBadRequest},
		{"bad as_of", `{"postcode": "SW1A 1AA", "radius_miles": 10, "as_of": "15/06/2025"}`, http.StatusBadRequest},
		{"inverted range", `{"postcode": "SW1A 1AA", "radius_miles": 10, "min_psc_age": 80, "max_psc_age": 60}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/search", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Search(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestWriteSearchErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", &engine.ValidationError{Field: "postcode", Message: "required"}, http.StatusBadRequest},
		{"radius error", &engine.RadiusError{Radius: 900}, http.StatusBadRequest},
		{"range error", &engine.RangeError{Field: "psc-age", Min: 80, Max: 60}, http.StatusBadRequest},
		{"unknown postcode", &postcode.NotFoundError{Postcode: "ZZ99 9ZZ"}, http.StatusNotFound},
		{"missing tables", &db.MissingTablesError{Tables: []string{"psc"}}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeSearchError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error response is not JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("error response missing the error message")
			}
		})
	}
}
