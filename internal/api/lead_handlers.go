package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ignite/lead-dashboard/internal/ingest"
	"github.com/ignite/lead-dashboard/internal/leadfile"
	"github.com/ignite/lead-dashboard/internal/pkg/httputil"
	"github.com/ignite/lead-dashboard/internal/service/lead"
)

// =============================================================================
// LEAD HANDLERS
// =============================================================================
// HTTP handlers for the lead dashboard API:
// - Batch file upload with per-session progress
// - Record listing, search, and dashboard stats
// - Phone column overrides
// - Filtered export download
// - Record deletion (blobs first, then the row)

// LeadHandlers provides HTTP handlers for lead records and uploads.
type LeadHandlers struct {
	leads          *lead.Service
	ingester       *ingest.Service
	progress       *ingest.Tracker
	maxUploadBytes int64
	maxBatchFiles  int
}

// NewLeadHandlers creates a new handler instance.
func NewLeadHandlers(leads *lead.Service, ingester *ingest.Service, progress *ingest.Tracker, maxUploadMB, maxBatchFiles int) *LeadHandlers {
	return &LeadHandlers{
		leads:          leads,
		ingester:       ingester,
		progress:       progress,
		maxUploadBytes: int64(maxUploadMB) << 20,
		maxBatchFiles:  maxBatchFiles,
	}
}

// RegisterRoutes registers the lead routes.
func (h *LeadHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Get("/stats", h.HandleStats)
	r.Post("/upload", h.HandleUpload)
	r.Get("/upload/{sessionId}/progress", h.HandleUploadProgress)
	r.Patch("/{id}/columns", h.HandleUpdateColumns)
	r.Delete("/{id}", h.HandleDelete)
	r.Get("/{id}/export", h.HandleExport)
}

// HealthCheck reports service liveness.
// GET /api/health
func (h *LeadHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}

// HandleList returns the caller's lead records, newest first.
// GET /api/leads?q=<search>
func (h *LeadHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	records, err := h.leads.List(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"records": records,
		"total":   len(records),
	})
}

// HandleStats returns the dashboard header aggregates.
// GET /api/leads/stats
func (h *LeadHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.leads.Stats(r.Context(), userID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, stats)
}

// HandleUpload ingests one batch of lead files from a multipart form. The
// whole batch is processed in the request; clients poll the progress endpoint
// with the returned session ID while this runs.
// POST /api/leads/upload (multipart field "files", repeated)
func (h *LeadHandlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		httputil.BadRequest(w, "upload too large or malformed multipart body")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		httputil.BadRequest(w, "at least one file is required in the 'files' field")
		return
	}
	if len(headers) > h.maxBatchFiles {
		httputil.BadRequest(w, fmt.Sprintf("a batch holds at most %d files, got %d", h.maxBatchFiles, len(headers)))
		return
	}

	files := make([]ingest.UploadedFile, 0, len(headers))
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("opening %s: %v", hdr.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("reading %s: %v", hdr.Filename, err))
			return
		}
		files = append(files, ingest.UploadedFile{Name: hdr.Filename, Data: data})
	}

	sessionID := uuid.New().String()
	rec, err := h.ingester.Ingest(r.Context(), userID, sessionID, files)
	if err != nil {
		h.writeIngestError(w, err)
		return
	}

	httputil.Created(w, map[string]any{
		"session_id": sessionID,
		"record":     rec,
	})
}

func (h *LeadHandlers) writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrClassify):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, ingest.ErrParse):
		httputil.Unprocessable(w, err.Error())
	case errors.Is(err, ingest.ErrBusy):
		httputil.Conflict(w, err.Error())
	case errors.Is(err, ingest.ErrUpload):
		httputil.BadGateway(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}

// HandleUploadProgress returns the ingestion progress for a session.
// GET /api/leads/upload/{sessionId}/progress
func (h *LeadHandlers) HandleUploadProgress(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	progress, err := h.progress.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, progress)
}

// UpdateColumnsRequest is the body for a phone column override. Omitted
// fields are left untouched.
type UpdateColumnsRequest struct {
	MainPhoneColumn      *string `json:"main_phone_column"`
	DialablesPhoneColumn *string `json:"dialables_phone_column"`
}

// HandleUpdateColumns overrides a record's stored phone column choices.
// PATCH /api/leads/{id}/columns
func (h *LeadHandlers) HandleUpdateColumns(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateColumnsRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	err := h.leads.OverridePhoneColumns(r.Context(), userID, chi.URLParam(r, "id"),
		req.MainPhoneColumn, req.DialablesPhoneColumn)
	switch {
	case errors.Is(err, lead.ErrNoFieldsToUpdate):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, lead.ErrNotFound):
		httputil.NotFound(w, "lead record not found")
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.NoContent(w)
	}
}

// HandleDelete removes a record and its stored files. Storage removal runs
// first; if it fails the record survives and a 502 is returned.
// DELETE /api/leads/{id}
func (h *LeadHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	err := h.leads.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, lead.ErrNotFound):
		httputil.NotFound(w, "lead record not found")
	case err != nil:
		httputil.InternalError(w, err)
	default:
		httputil.NoContent(w)
	}
}

// HandleExport downloads the record's main file with already-dialed rows
// removed, as an attachment named filtered_<original>.
// GET /api/leads/{id}/export
func (h *LeadHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	export, err := h.leads.BuildFilteredExport(r.Context(), userID, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, lead.ErrNotFound):
		httputil.NotFound(w, "lead record not found")
		return
	case errors.Is(err, lead.ErrNoPhoneColumn), errors.Is(err, leadfile.ErrColumnNotFound):
		httputil.Conflict(w, err.Error())
		return
	case err != nil:
		httputil.BadGateway(w, err.Error())
		return
	}

	w.Header().Set("X-Export-Kept", fmt.Sprintf("%d", export.Kept))
	w.Header().Set("X-Export-Removed", fmt.Sprintf("%d", export.Removed))
	httputil.Attachment(w, export.Filename, "text/csv", export.Content)
}
