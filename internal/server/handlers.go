package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/abhisek/maturity/internal/crm"
	"github.com/abhisek/maturity/internal/report"
)

// maxBody caps request bodies.
const maxBody = 64 << 10

type handler struct {
	deps Deps
}

func (h *handler) generatePDF(w http.ResponseWriter, r *http.Request) {
	var b report.Bundle
	if err := decode(w, r, &b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if b.Scores == nil || len(b.Scores.Categories) == 0 {
		writeError(w, http.StatusBadRequest, "No scores available to generate report")
		return
	}

	doc, _, err := h.deps.Reports.Generate(r.Context(), b.Sanitized())
	if err != nil {
		log.Printf("[report] generate: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate PDF report")
		return
	}

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", doc.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

func (h *handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var sub crm.Subscriber
	if err := decode(w, r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(sub.Email) == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if h.deps.List == nil {
		writeError(w, http.StatusInternalServerError, "Email service not configured")
		return
	}

	if err := h.deps.List.Subscribe(r.Context(), sub); err != nil {
		writeUpstreamError(w, "subscribe", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) createLead(w http.ResponseWriter, r *http.Request) {
	var b report.Bundle
	if err := decode(w, r, &b); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(b.Email) == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if b.Scores == nil {
		writeError(w, http.StatusBadRequest, "Scores are required")
		return
	}
	if h.deps.Leads == nil {
		writeError(w, http.StatusInternalServerError, "Salesforce not configured")
		return
	}

	b = b.Sanitized()
	lead := crm.Lead{Email: b.Email, Scores: *b.Scores}
	if b.User != nil {
		lead.Name, lead.Company = b.User.Name, b.User.Company
	}
	id, err := h.deps.Leads.CreateLead(r.Context(), lead)
	if err != nil {
		writeUpstreamError(w, "create lead", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeUpstreamError passes a CRM status through. Unconfigured clients and
// transport failures are 500.
func writeUpstreamError(w http.ResponseWriter, what string, err error) {
	log.Printf("[crm] %s: %v", what, err)
	var apiErr *crm.APIError
	switch {
	case errors.Is(err, crm.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, "Service not configured")
	case errors.As(err, &apiErr):
		writeError(w, apiErr.StatusCode, apiErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "Upstream request failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
