// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldLanguage   = "language"
	FieldFiles      = "files"
	FieldEvent      = "event"

	// Document and search fields.
	FieldQuery         = "query"
	FieldCaseSensitive = "case_sensitive"
	FieldMatches       = "matches"
	FieldCurrent       = "current"
	FieldReplaced      = "replaced"

	// Preview fields.
	FieldStyle    = "style"
	FieldZoom     = "zoom"
	FieldFrozen   = "frozen"
	FieldFraction = "fraction"
	FieldRenders  = "renders"
	FieldFailures = "failures"
	FieldDuration = "duration"
	FieldForced   = "forced"

	// Export fields.
	FieldTool   = "tool"
	FieldStderr = "stderr"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
