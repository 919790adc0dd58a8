package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/kozaktomas/cardsheet/internal/config"
	"github.com/kozaktomas/cardsheet/internal/constants"
	"github.com/kozaktomas/cardsheet/internal/export"
	"github.com/kozaktomas/cardsheet/internal/render"
)

// PreviewHandler renders crop previews
type PreviewHandler struct {
	config *config.Config
	loader export.Loader
}

// NewPreviewHandler creates a new preview handler. A nil loader reads images
// from the local file system.
func NewPreviewHandler(cfg *config.Config, loader export.Loader) *PreviewHandler {
	if loader == nil {
		loader = render.FileLoader{}
	}
	return &PreviewHandler{config: cfg, loader: loader}
}

// Get returns a PNG thumbnail of the region that will be printed for the
// image at ?path=. ?cropped=true|false overrides the file-name classifier.
func (h *PreviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	path, err := resolveImagePath(h.config.Web.ImageDir, path)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var cropped bool
	if raw := r.URL.Query().Get("cropped"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid cropped value")
			return
		}
		cropped = v
	} else {
		classifier, err := h.config.Crop.Classifier()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "invalid crop patterns")
			return
		}
		cropped = classifier.Classify(path)
	}

	img, err := h.loader.Load(path)
	if err != nil {
		log.Printf("WARNING: preview of %s failed: %v", sanitizeForLog(path), err)
		respondError(w, http.StatusUnprocessableEntity, "cannot read image")
		return
	}

	margin := h.config.Layout.Geometry().CropMargin
	thumb := render.Preview(img, cropped, margin, constants.PreviewMaxWidth, constants.PreviewMaxHeight)
	data, err := render.EncodePNG(thumb)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode preview")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Cropped", strconv.FormatBool(cropped))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
