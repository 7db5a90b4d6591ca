package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds region and document identifiers.
const maxIDLength = 128

// idRegex matches identifiers accepted for regions and documents.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateRegionID validates a region identifier.
// Region IDs key the grid's region registry and appear in file names and URLs,
// so the rules are conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_', ':' and '-' only, starting with a letter or digit
func ValidateRegionID(id string) error {
	if err := validateID(id); err != nil {
		return New(ErrCodeInvalidRegion, "region id %s", err.Error())
	}
	return nil
}

// ValidateDocumentID validates a layout document identifier.
// Document IDs become file names in the file store, so path separators and
// traversal sequences are rejected by the same rules as region IDs.
func ValidateDocumentID(id string) error {
	if err := validateID(id); err != nil {
		return New(ErrCodeInvalidInput, "document id %s", err.Error())
	}
	return nil
}

type idError string

func (e idError) Error() string { return string(e) }

func validateID(id string) error {
	if id == "" {
		return idError("cannot be empty")
	}
	if len(id) > maxIDLength {
		return idError("too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return idError("cannot contain path traversal sequences (..)")
	}
	if !idRegex.MatchString(id) {
		return idError("contains invalid characters: " + quoteID(id))
	}
	return nil
}

func quoteID(id string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range id {
		if unicode.IsControl(r) {
			b.WriteString("?")
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// ValidatePath validates a file path given on the command line or in config.
// It rejects control characters and overly long paths; both absolute and
// relative paths are allowed because layout files live anywhere on disk.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateDimension validates a container width or height. It must be
// finite and non-negative.
func ValidateDimension(name string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite non-negative number, got %v", name, v)
	}
	return nil
}
