// Package server exposes the report and CRM collaborators over HTTP for
// web front ends. It never scores: it renders what it is given.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/maturity/internal/crm"
	"github.com/abhisek/maturity/internal/report"
)

// Reports renders PDFs.
type Reports interface {
	Generate(ctx context.Context, b report.Bundle) (*report.Document, string, error)
}

// MailingList subscribes respondents.
type MailingList interface {
	Subscribe(ctx context.Context, s crm.Subscriber) error
}

// LeadSink creates sales leads.
type LeadSink interface {
	CreateLead(ctx context.Context, l crm.Lead) (string, error)
}

// Deps are the collaborators behind the routes. Nil List or Leads make
// their routes answer 500 as unconfigured.
type Deps struct {
	Reports    Reports
	List       MailingList
	Leads      LeadSink
	CORSOrigin string
}

// NewRouter builds the HTTP handler.
func NewRouter(d Deps) http.Handler {
	h := &handler{deps: d}
	r := mux.NewRouter()
	r.Use(corsMiddleware(d.CORSOrigin))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate-pdf", h.generatePDF).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/subscribe", h.subscribe).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/salesforce/lead", h.createLead).Methods(http.MethodPost, http.MethodOptions)

	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func corsMiddleware(origin string) mux.MiddlewareFunc {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Run serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("[server] stopped")
	return nil
}
