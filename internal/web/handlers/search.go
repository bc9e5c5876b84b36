package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ch-finder/internal/db"
	"github.com/ch-finder/internal/engine"
	"github.com/ch-finder/internal/postcode"
)

// SearchHandler handles the search endpoint
type SearchHandler struct {
	Searcher   *engine.Searcher
	MaxResults int
}

// SearchRequest is the JSON body of a search call. Optional criteria are
// pointers so the client can omit them.
type SearchRequest struct {
	Postcode          string   `json:"postcode"`
	RadiusMiles       float64  `json:"radius_miles"`
	CompanyStatus     string   `json:"company_status,omitempty"`
	AccountCategories []string `json:"account_categories,omitempty"`
	SICCodes          []int    `json:"sic_codes,omitempty"`
	MinCompanyAge     *int     `json:"min_company_age,omitempty"`
	MaxCompanyAge     *int     `json:"max_company_age,omitempty"`
	MinPSCAge         *int     `json:"min_psc_age,omitempty"`
	MaxPSCAge         *int     `json:"max_psc_age,omitempty"`
	MinTenure         *int     `json:"min_tenure,omitempty"`
	MaxTenure         *int     `json:"max_tenure,omitempty"`
	StrictTenure      bool     `json:"strict_tenure,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
	AsOf              string   `json:"as_of,omitempty"`
}

// SearchResponse wraps the result rows with the query context needed to
// reproduce them
type SearchResponse struct {
	Count   int                    `json:"count"`
	AsOf    string                 `json:"as_of"`
	Results []engine.CompanyResult `json:"results"`
}

// Search runs one company search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			http.Error(w, "Invalid as_of date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		asOf = parsed
	}

	spec := engine.QuerySpec{
		Postcode:          req.Postcode,
		RadiusMiles:       req.RadiusMiles,
		CompanyStatus:     req.CompanyStatus,
		AccountCategories: req.AccountCategories,
		SICCodes:          req.SICCodes,
		MinCompanyAge:     req.MinCompanyAge,
		MaxCompanyAge:     req.MaxCompanyAge,
		MinPSCAge:         req.MinPSCAge,
		MaxPSCAge:         req.MaxPSCAge,
		MinTenure:         req.MinTenure,
		MaxTenure:         req.MaxTenure,
		StrictTenure:      req.StrictTenure,
		MaxResults:        req.MaxResults,
	}
	if h.MaxResults > 0 && (spec.MaxResults == 0 || spec.MaxResults > h.MaxResults) {
		spec.MaxResults = h.MaxResults
	}

	results, err := h.Searcher.Search(spec, asOf)
	if err != nil {
		writeSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Count:   len(results),
		AsOf:    asOf.Format("2006-01-02"),
		Results: results,
	})
}

// writeSearchError maps pipeline errors onto HTTP statuses: bad input is
// 400, an unknown postcode 404, missing tables 503, the rest 500.
func writeSearchError(w http.ResponseWriter, err error) {
	var verr *engine.ValidationError
	var rerr *engine.RangeError
	var raderr *engine.RadiusError
	var nferr *postcode.NotFoundError
	var mterr *db.MissingTablesError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr), errors.As(err, &rerr), errors.As(err, &raderr):
		status = http.StatusBadRequest
	case errors.As(err, &nferr):
		status = http.StatusNotFound
	case errors.As(err, &mterr):
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
