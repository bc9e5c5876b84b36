package handlers

import (
	"net/http"

	"github.com/ch-finder/internal/db"
	"github.com/ch-finder/internal/engine"
	"github.com/ch-finder/internal/inspect"
	"github.com/ch-finder/internal/profiles"
)

// MetaHandler serves the reference endpoints around search: vocabularies,
// saved profiles, data statistics and liveness.
type MetaHandler struct {
	Conn         *db.Connection
	ProfilesPath string
}

// Categories lists the account category and company status vocabularies
func (h *MetaHandler) Categories(w http.ResponseWriter, r *http.Request) {
	type category struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	cats := make([]category, 0, len(engine.AccountCategories))
	for _, c := range engine.AccountCategories {
		cats = append(cats, category{Name: c.Name, Description: c.Description})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account_categories": cats,
		"company_statuses":   engine.ValidStatuses,
	})
}

// Profiles lists the saved search profiles with defaults resolved
func (h *MetaHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	cfg, err := profiles.Load(h.ProfilesPath)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	resolved := make(map[string]profiles.Profile, len(cfg.Profiles))
	for _, name := range cfg.Names() {
		p, err := cfg.Get(name)
		if err != nil {
			continue
		}
		resolved[name] = p
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"names":    cfg.Names(),
		"profiles": resolved,
	})
}

// Stats reports row counts and coverage for the loaded data release
func (h *MetaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	report, err := inspect.NewInspector(h.Conn).Run()
	if err != nil {
		writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Health answers liveness probes; it fails when the database is down
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Conn.DB.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
