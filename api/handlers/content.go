package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ministore/core/activity"
	"ministore/core/mailer"
	"ministore/core/qa"
	"ministore/core/session"
	"ministore/core/utils"
)

type ContentHandler struct {
	mailer   *mailer.Mailer
	activity *activity.Log
	metrics  *Metrics
	logger   *utils.Logger
}

func NewContentHandler(m *mailer.Mailer, log *activity.Log, metrics *Metrics, logger *utils.Logger) *ContentHandler {
	return &ContentHandler{mailer: m, activity: log, metrics: metrics, logger: logger}
}

func (h *ContentHandler) QA(w http.ResponseWriter, r *http.Request) {
	items := qa.Apply(qa.Items(), qa.Filter{
		Category:     qa.ParseCategory(r.URL.Query().Get("category")),
		FrequentOnly: queryBool(r, "frequent"),
		Keyword:      r.URL.Query().Get("q"),
	})
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "categories": qa.Categories})
}

func (h *ContentHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg mailer.ContactMessage
	if !decodeJSON(w, r, &msg) {
		return
	}
	simulated, err := h.mailer.SendContact(r.Context(), msg)
	if err != nil {
		if errors.Is(err, mailer.ErrMissingFields) {
			writeServiceError(w, h.logger, err)
			return
		}
		writeErrorMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.contact(simulated)
	text := "Your message has been sent."
	if simulated {
		text = "Your message has been sent. (simulated)"
	}
	writeMessage(w, http.StatusOK, text)
}

type pageViewRequest struct {
	Path string `json:"path"`
}

// PageView records navigation of a logged-in user. Anonymous views are
// accepted and dropped.
func (h *ContentHandler) PageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	snap := session.FromContext(r.Context())
	path := strings.TrimSpace(req.Path)
	if snap == nil || path == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, err := h.activity.Append(r.Context(), snap.Account.ID, activity.ActionPageView, "Navigated to "+path); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
