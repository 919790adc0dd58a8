package handlers

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/kozaktomas/cardsheet/internal/catalog"
	"github.com/kozaktomas/cardsheet/internal/config"
	"github.com/kozaktomas/cardsheet/internal/export"
	"github.com/kozaktomas/cardsheet/internal/layout"
	"github.com/kozaktomas/cardsheet/internal/render"
)

// ScanHandler lists image folders
type ScanHandler struct {
	config *config.Config
	loader export.Loader
}

// NewScanHandler creates a new scan handler. A nil loader reads images from
// the local file system.
func NewScanHandler(cfg *config.Config, loader export.Loader) *ScanHandler {
	if loader == nil {
		loader = render.FileLoader{}
	}
	return &ScanHandler{config: cfg, loader: loader}
}

// ScanRequest represents a folder scan request
type ScanRequest struct {
	Dir string `json:"dir"`
	// Duplicates adds near-identical image pairs to the response.
	Duplicates bool `json:"duplicates"`
}

// ScanResponse lists the images of a folder in export order
type ScanResponse struct {
	Dir     string          `json:"dir"`
	Count   int             `json:"count"`
	Pages   int             `json:"pages"`
	Entries []catalog.Entry `json:"entries"`

	Duplicates []render.DuplicatePair `json:"duplicates,omitempty"`
}

// Scan lists the supported images of a folder with their default crop flags
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Dir == "" {
		respondError(w, http.StatusBadRequest, "dir is required")
		return
	}

	dir, err := resolveImagePath(h.config.Web.ImageDir, req.Dir)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	classifier, err := h.config.Crop.Classifier()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "invalid crop patterns")
		return
	}

	entries, err := catalog.ScanDir(dir, classifier)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		respondError(w, http.StatusBadRequest, "cannot read directory")
		return
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}

	response := ScanResponse{
		Dir:     dir,
		Count:   len(entries),
		Pages:   layout.PageCount(len(entries)),
		Entries: entries,
	}
	if req.Duplicates {
		paths := make([]string, len(entries))
		for i, e := range entries {
			paths[i] = e.Path
		}
		response.Duplicates = render.FindDuplicates(render.HashFiles(h.loader, paths), render.DuplicateThreshold)
	}

	respondJSON(w, http.StatusOK, response)
}
