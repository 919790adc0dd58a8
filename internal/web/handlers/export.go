package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/cardsheet/internal/catalog"
	"github.com/kozaktomas/cardsheet/internal/config"
	"github.com/kozaktomas/cardsheet/internal/constants"
	"github.com/kozaktomas/cardsheet/internal/export"
	"github.com/kozaktomas/cardsheet/internal/render"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	config     *config.Config
	jobManager *JobManager
	loader     export.Loader
	newBackend export.BackendFactory
}

// NewExportHandler creates a new export handler. A nil loader reads images
// from the local file system.
func NewExportHandler(cfg *config.Config, jm *JobManager, loader export.Loader) *ExportHandler {
	if loader == nil {
		loader = render.FileLoader{}
	}
	return &ExportHandler{
		config:     cfg,
		jobManager: jm,
		loader:     loader,
	}
}

// ExportRequest represents an export start request
type ExportRequest struct {
	Destination string          `json:"destination"`
	Entries     []catalog.Entry `json:"entries"`
}

// Start validates the selection and starts an export job
func (h *ExportHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if req.Destination == "" {
		respondError(w, http.StatusBadRequest, "destination is required")
		return
	}
	if len(req.Entries) > constants.MaxExportEntries {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("too many entries (max %d)", constants.MaxExportEntries))
		return
	}
	for i, e := range req.Entries {
		if e.Path == "" {
			respondError(w, http.StatusBadRequest, "entry path is required")
			return
		}
		path, err := resolveImagePath(h.config.Web.ImageDir, e.Path)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Entries[i].Path = path
	}

	destination, err := resolveInDir(h.config.Web.OutputDir, export.NormalizeDestination(req.Destination))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	selected := catalog.Selected(req.Entries)
	if len(selected) == 0 {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": string(export.StateAborted),
		})
		return
	}

	jobID := uuid.New().String()
	job := h.jobManager.CreateJob(jobID, destination, len(selected))

	go h.runExportJob(job, selected)

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":       jobID,
		"destination":  destination,
		"total_images": len(selected),
		"status":       string(JobStatusPending),
	})
}

// lookupJob finds the job named by the jobId URL parameter.
func (h *ExportHandler) lookupJob(w http.ResponseWriter, r *http.Request) *ExportJob {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return nil
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return nil
	}
	return job
}

// Status returns the status of an export job
func (h *ExportHandler) Status(w http.ResponseWriter, r *http.Request) {
	job := h.lookupJob(w, r)
	if job == nil {
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Events streams job events via SSE
func (h *ExportHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job
		},
	)
}

// Cancel cancels an export job
func (h *ExportHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	job := h.lookupJob(w, r)
	if job == nil {
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": job.Cancel()})
}

// runExportJob runs the export job in the background
func (h *ExportHandler) runExportJob(job *ExportJob, selected []catalog.Entry) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	job.cancel = cancel
	job.Status = JobStatusRunning
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "started", Message: "Export started"})

	writer, err := export.NewWriter(export.Options{
		Layout: h.config.Layout.Config,
		PDF: render.PDFOptions{
			Title:       filepath.Base(job.Destination),
			Creator:     h.config.Export.Creator,
			JPEGQuality: h.config.Export.JPEGQuality,
		},
		Loader:       h.loader,
		NewBackend:   h.newBackend,
		BeforeCommit: job.beginCommit,
		OnProgress: func(p export.Progress) {
			job.mu.Lock()
			job.Processed = p.Done
			job.Progress = p.Done * 100 / p.Total
			job.mu.Unlock()
			job.SendEvent(JobEvent{Type: "progress", Data: p})
		},
	})
	if err != nil {
		h.failJob(job, err.Error())
		return
	}

	result, err := writer.Export(ctx, job.Destination, selected)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			// Cancel has already set the status; report that the run stopped.
			job.SendEvent(JobEvent{Type: "cancelled", Message: "Job was cancelled"})
			return
		}
		log.Printf("ERROR: export to %s failed: %v", sanitizeForLog(job.Destination), err)
		h.failJob(job, fmt.Sprintf("export failed: %v", err))
		return
	}

	now := time.Now()
	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	job.Status = JobStatusCompleted
	job.CompletedAt = &now
	job.Progress = 100
	job.Processed = job.TotalImages
	job.Result = result
	job.mu.Unlock()

	job.SendEvent(JobEvent{Type: "completed", Data: result})
}

func (h *ExportHandler) failJob(job *ExportJob, message string) {
	now := time.Now()
	job.mu.Lock()
	if job.Status == JobStatusCancelled {
		job.mu.Unlock()
		return
	}
	job.Status = JobStatusFailed
	job.Error = message
	job.CompletedAt = &now
	job.mu.Unlock()
	job.SendEvent(JobEvent{Type: "job_error", Message: message})
}
