package handlers

import (
	"net/http"

	"github.com/kozaktomas/cardsheet/internal/config"
	"github.com/kozaktomas/cardsheet/internal/export"
	"github.com/kozaktomas/cardsheet/internal/layout"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	PageSize    string        `json:"page_size,omitempty"`
	Layout      layout.Config `json:"layout"`
	Geometry    GeometryInfo  `json:"geometry"`
	JPEGQuality int           `json:"jpeg_quality"`
	LowResDPI   float64       `json:"low_res_dpi"`
	// OutputDirConfined reports whether export destinations are resolved
	// inside a server-side directory.
	OutputDirConfined bool `json:"output_dir_confined"`
}

// GeometryInfo is the layout in device pixels
type GeometryInfo struct {
	DPI          int `json:"dpi"`
	PageWidth    int `json:"page_width"`
	PageHeight   int `json:"page_height"`
	CardWidth    int `json:"card_width"`
	CardHeight   int `json:"card_height"`
	CropMargin   int `json:"crop_margin"`
	CutLine      int `json:"cut_line"`
	CornerMark   int `json:"corner_mark"`
	OffsetX      int `json:"offset_x"`
	OffsetY      int `json:"offset_y"`
	SlotsPerPage int `json:"slots_per_page"`
}

// Get returns the effective layout
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	g := h.config.Layout.Geometry()

	response := ConfigResponse{
		PageSize: h.config.Layout.PageSize,
		Layout:   h.config.Layout.Config,
		Geometry: GeometryInfo{
			DPI:          g.DPI,
			PageWidth:    g.PageW,
			PageHeight:   g.PageH,
			CardWidth:    g.CardW,
			CardHeight:   g.CardH,
			CropMargin:   g.CropMargin,
			CutLine:      g.CutLine,
			CornerMark:   g.CornerMark,
			OffsetX:      g.OffsetX,
			OffsetY:      g.OffsetY,
			SlotsPerPage: layout.SlotsPerPage,
		},
		JPEGQuality:       h.config.Export.JPEGQuality,
		LowResDPI:         export.LowResDPIThreshold,
		OutputDirConfined: h.config.Web.OutputDir != "",
	}

	respondJSON(w, http.StatusOK, response)
}
