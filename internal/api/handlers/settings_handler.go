package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/services"
)

// SettingsHandler reads and mutates the session settings.
type SettingsHandler struct {
	session      *services.Session
	settingsPath string
}

func NewSettingsHandler(session *services.Session, settingsPath string) *SettingsHandler {
	return &SettingsHandler{session: session, settingsPath: settingsPath}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.Settings())
}

type updateSettingsRequest struct {
	models.Settings
	Template string `json:"template,omitempty"`
	Persist  bool   `json:"persist,omitempty"`
}

// Update handles PUT /api/settings. Changes take effect on the next query.
// Setting "template" picks a named system prompt unless an explicit override
// is given; "persist" also writes the settings file for future sessions.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	settings := req.Settings
	if settings.SystemPrompt == "" && req.Template != "" {
		settings.SystemPrompt = services.PromptTemplate(req.Template)
	}

	if err := h.session.UpdateSettings(settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Persist {
		if err := services.SaveSettings(h.settingsPath, settings); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.Settings())
}
