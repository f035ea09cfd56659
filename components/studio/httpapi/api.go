// Package httpapi exposes the studio commands and queries as plain
// net/http handlers, shared by the fiber-backed router wiring and any
// standalone mux.
package httpapi

import (
	"encoding/json"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/pulsekit/go-studio/components/analytics"
	"github.com/pulsekit/go-studio/components/calendar"
	"github.com/pulsekit/go-studio/components/generate"
	studio "github.com/pulsekit/go-studio/components/studio"
	"github.com/pulsekit/go-studio/components/studio/commands"
	"github.com/pulsekit/go-studio/components/studio/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Refresh       gocommand.Commander[commands.RefreshPlatformsInput]
	MoveEvent     gocommand.Commander[commands.MoveEventInput]
	Preferences   gocommand.Commander[studio.PreferencesInput]
	GenerateReply gocommand.Commander[commands.GenerateReplyInput]
	Script        gocommand.Commander[generate.ScriptRequest]
	TitleTags     gocommand.Commander[generate.TitleTagsRequest]

	Analytics gocommand.Querier[queries.AnalyticsSnapshotInput, analytics.PageSnapshot]
	Calendar  gocommand.Querier[queries.CalendarMonthInput, calendar.PageSnapshot]
}

// HandleRefresh triggers a re-sync of every platform.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Refresh.Execute(r.Context(), commands.RefreshPlatformsInput{}); err != nil {
		respondError(w, http.StatusBadGateway, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleMoveEvent reschedules one calendar event.
func (h *Handlers) HandleMoveEvent(w http.ResponseWriter, r *http.Request) {
	var payload commands.MoveEventInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.MoveEvent.Execute(r.Context(), payload); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandlePreferences applies preference changes.
func (h *Handlers) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	var payload studio.PreferencesInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Preferences.Execute(r.Context(), payload); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleGenerateReply requests a reply suggestion.
func (h *Handlers) HandleGenerateReply(w http.ResponseWriter, r *http.Request) {
	var payload commands.GenerateReplyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.GenerateReply.Execute(r.Context(), payload); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleGenerateScript runs the script form.
func (h *Handlers) HandleGenerateScript(w http.ResponseWriter, r *http.Request) {
	var payload generate.ScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Script.Execute(r.Context(), payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleGenerateTitleTags runs the title/tag form.
func (h *Handlers) HandleGenerateTitleTags(w http.ResponseWriter, r *http.Request) {
	var payload generate.TitleTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.TitleTags.Execute(r.Context(), payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleAnalyticsSnapshot serves the analytics page projection as JSON.
func (h *Handlers) HandleAnalyticsSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Analytics.Query(r.Context(), queries.AnalyticsSnapshotInput{})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// HandleCalendarMonth serves a calendar month projection as JSON.
func (h *Handlers) HandleCalendarMonth(w http.ResponseWriter, r *http.Request) {
	var input queries.CalendarMonthInput
	if anchor := r.URL.Query().Get("anchor"); anchor != "" {
		parsed, err := parseAnchor(anchor)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		input.Anchor = parsed
	}
	snapshot, err := h.Calendar.Query(r.Context(), input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
