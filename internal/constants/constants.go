// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Preview constants
const (
	// PreviewMaxWidth is the width of the box crop previews are fitted into
	PreviewMaxWidth = 300

	// PreviewMaxHeight is the height of the box crop previews are fitted into
	PreviewMaxHeight = 400
)

// Job constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100

	// MaxExportEntries is the maximum number of entries accepted by one API export
	MaxExportEntries = 5000
)

// Request constants
const (
	// MaxRequestBodySize is the maximum JSON request body in bytes (10MB)
	MaxRequestBodySize = 10 << 20
)
