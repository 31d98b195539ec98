package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxIDLength bounds node ids and graph ids accepted at the API boundary.
const MaxIDLength = 256

// ValidateNodeID checks a node id supplied by a user or an imported file.
// Ids are opaque strings; the only rules are that they are non-blank, bounded
// in length and free of control characters.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeEmptyID, "node id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}

	return nil
}

// graphIDRegex matches graph ids that are safe to use as file names and
// storage keys.
var graphIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateGraphID validates a graph identifier for safety.
// Graph ids double as file names in the file store, so path traversal
// sequences and separators are rejected.
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "graph id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "graph id too long (max %d characters)", MaxIDLength)
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "graph id cannot contain path traversal sequences (..)")
	}

	if !graphIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid graph id: %q", id)
	}

	return nil
}

// ValidateTitle validates a graph title.
func ValidateTitle(title string) error {
	const maxTitleLength = 200
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}
	for _, r := range title {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "title contains invalid characters")
		}
	}
	return nil
}
