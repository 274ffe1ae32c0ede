package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/avosseler/vendormind/internal/config"
	"github.com/avosseler/vendormind/internal/core/domain"
	"github.com/avosseler/vendormind/internal/core/ports"
)

type Router struct {
	ingestUC  ports.InvoiceIngestor
	processUC ports.InvoiceJobProcessor
	learnUC   ports.CorrectionTrainer
	repo      ports.InvoiceRepository
	cfg       config.Config
}

func NewRouter(
	ingestUC ports.InvoiceIngestor,
	processUC ports.InvoiceJobProcessor,
	learnUC ports.CorrectionTrainer,
	repo ports.InvoiceRepository,
	cfg config.Config,
) *Router {
	return &Router{
		ingestUC:  ingestUC,
		processUC: processUC,
		learnUC:   learnUC,
		repo:      repo,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/invoices", rt.ingestInvoice)
	mux.HandleFunc("/v1/invoices/", rt.invoiceSubroutes)

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInflight, time.Duration(rt.cfg.APIInflightWaitMS)*time.Millisecond)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ingestInvoice accepts either a multipart source document (fields
// "vendor" and "file") or a pre-extracted invoice as JSON.
func (rt *Router) ingestInvoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		rt.ingestDocument(w, r)
		return
	}

	var inv domain.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	stored, err := rt.ingestUC.IngestInvoice(r.Context(), &inv)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, stored)
}

func (rt *Router) ingestDocument(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	vendor := strings.TrimSpace(r.FormValue("vendor"))
	if vendor == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "form field 'vendor' is required"})
		return
	}

	inv, err := rt.ingestUC.IngestDocument(r.Context(), vendor, fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, inv)
}

func (rt *Router) invoiceSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/invoices/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invoice id is required"})
		return
	}

	switch action {
	case "":
		rt.getInvoiceByID(w, r, id)
	case "process":
		rt.processInvoice(w, r, id)
	case "corrections":
		rt.learnCorrections(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (rt *Router) getInvoiceByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	inv, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (rt *Router) processInvoice(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	result, err := rt.processUC.ProcessByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) learnCorrections(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var log domain.HumanCorrectionLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	log.InvoiceID = id

	inv, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := rt.learnUC.Learn(r.Context(), inv, log); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "learned"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
