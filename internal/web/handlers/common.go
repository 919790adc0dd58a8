package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/cardsheet/internal/constants"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// errOutsideOutputDir is returned for destinations escaping the configured output directory.
var errOutsideOutputDir = errors.New("path is outside the output directory")

// errOutsideImageDir is returned for image paths escaping the configured image directory.
var errOutsideImageDir = errors.New("path is outside the image directory")

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a size-limited JSON request body into target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(target)
}

// resolveInDir resolves path against dir and rejects results outside dir.
// An empty dir leaves path unconfined.
func resolveInDir(dir, path string) (string, error) {
	if dir == "" {
		return filepath.Clean(path), nil
	}
	base, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(base, resolved)
	}
	resolved = filepath.Clean(resolved)

	rel, err := filepath.Rel(base, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideOutputDir
	}
	return resolved, nil
}

// resolveImagePath confines a folder or image path to the image directory.
func resolveImagePath(dir, path string) (string, error) {
	resolved, err := resolveInDir(dir, path)
	if errors.Is(err, errOutsideOutputDir) {
		return "", errOutsideImageDir
	}
	return resolved, err
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
