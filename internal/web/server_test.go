package web

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/cardsheet/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Web.OutputDir = t.TempDir()
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("failed to resolve config: %v", err)
	}
	server, err := NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return server
}

func TestNewServer_NetworkHostNeedsConfinedDirs(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		outputDir string
		imageDir  string
		wantErr   bool
	}{
		{"loopback default", "127.0.0.1", "", "", false},
		{"localhost", "localhost", "", "", false},
		{"ipv6 loopback", "::1", "", "", false},
		{"all interfaces", "0.0.0.0", "", "", true},
		{"empty host", "", "", "", true},
		{"lan address without image dir", "192.168.1.10", "out", "", true},
		{"all interfaces without output dir", "0.0.0.0", "", "images", true},
		{"all interfaces confined", "0.0.0.0", "out", "images", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Defaults()
			cfg.Web.Host = tc.host
			cfg.Web.OutputDir = tc.outputDir
			cfg.Web.ImageDir = tc.imageDir

			server, err := NewServer(cfg, nil)
			if tc.wantErr {
				if !errors.Is(err, config.ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				if server != nil {
					t.Error("expected no server on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewServer: %v", err)
			}
		})
	}
}

func TestServer_ConfinesPaths(t *testing.T) {
	cfg := config.Defaults()
	cfg.Web.Host = "0.0.0.0"
	cfg.Web.OutputDir = t.TempDir()
	cfg.Web.ImageDir = t.TempDir()
	if err := cfg.Resolve(); err != nil {
		t.Fatalf("failed to resolve config: %v", err)
	}
	server, err := NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	router := server.Router()

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		wantErr string
	}{
		{"scan outside image dir", "POST", "/api/v1/scan", `{"dir":"/etc"}`, "path is outside the image directory"},
		{"preview outside image dir", "GET", "/api/v1/preview?path=/etc/passwd", "", "path is outside the image directory"},
		{"export entry outside image dir", "POST", "/api/v1/exports",
			`{"destination":"deck","entries":[{"path":"/etc/passwd","selected":true}]}`, "path is outside the image directory"},
		{"export destination outside output dir", "POST", "/api/v1/exports",
			`{"destination":"/tmp/elsewhere/deck","entries":[{"path":"a.png","selected":true}]}`, "path is outside the output directory"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d (%s)", recorder.Code, strings.TrimSpace(recorder.Body.String()))
			}
			if !strings.Contains(recorder.Body.String(), tc.wantErr) {
				t.Errorf("expected error %q, got %s", tc.wantErr, recorder.Body.String())
			}
		})
	}
}

func TestServer_Routes(t *testing.T) {
	router := newTestServer(t).Router()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", "GET", "/api/v1/health", "", http.StatusOK},
		{"config", "GET", "/api/v1/config", "", http.StatusOK},
		{"scan validates", "POST", "/api/v1/scan", `{}`, http.StatusBadRequest},
		{"preview validates", "GET", "/api/v1/preview", "", http.StatusBadRequest},
		{"export validates", "POST", "/api/v1/exports", `{}`, http.StatusBadRequest},
		{"export empty selection", "POST", "/api/v1/exports", `{"destination":"deck","entries":[]}`, http.StatusOK},
		{"unknown job", "GET", "/api/v1/exports/nope", "", http.StatusNotFound},
		{"cancel unknown job", "DELETE", "/api/v1/exports/nope", "", http.StatusNotFound},
		{"events unknown job", "GET", "/api/v1/exports/nope/events", "", http.StatusNotFound},
		{"unknown route", "GET", "/api/v1/albums", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatus {
				t.Errorf("%s %s: expected status %d, got %d (%s)",
					tc.method, tc.path, tc.wantStatus, recorder.Code, strings.TrimSpace(recorder.Body.String()))
			}
		})
	}
}

func TestServer_SetsSecurityHeaders(t *testing.T) {
	router := newTestServer(t).Router()
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/v1/health", nil))

	if recorder.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on API responses")
	}
}
