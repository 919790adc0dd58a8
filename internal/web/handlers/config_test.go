package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConfigHandler_Get_DefaultGeometry(t *testing.T) {
	handler := NewConfigHandler(testConfig(t))

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var got ConfigResponse
	parseJSONResponse(t, recorder, &got)

	want := GeometryInfo{
		DPI:          300,
		PageWidth:    2550,
		PageHeight:   3300,
		CardWidth:    744,
		CardHeight:   1039,
		CropMargin:   37,
		CutLine:      188,
		CornerMark:   11,
		OffsetX:      159,
		OffsetY:      91,
		SlotsPerPage: 9,
	}
	if got.Geometry != want {
		t.Errorf("geometry = %+v, want %+v", got.Geometry, want)
	}
	if got.PageSize != "letter" || got.Layout.CardWidthMM != 63 || got.Layout.CornerMarkMM != 1 {
		t.Errorf("unexpected layout %q %+v", got.PageSize, got.Layout)
	}
	if got.LowResDPI != 200 || got.OutputDirConfined {
		t.Errorf("unexpected response %+v", got)
	}
}

func TestConfigHandler_Get_OutputDirConfined(t *testing.T) {
	cfg := testConfig(t)
	cfg.Web.OutputDir = "/srv/sheets"
	handler := NewConfigHandler(cfg)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, httptest.NewRequest("GET", "/api/v1/config", nil))

	var got ConfigResponse
	parseJSONResponse(t, recorder, &got)
	if !got.OutputDirConfined {
		t.Error("expected output_dir_confined true")
	}
}
