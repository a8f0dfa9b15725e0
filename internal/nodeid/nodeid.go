// internal/nodeid/nodeid.go
package nodeid

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxLength is the longest identifier accepted, in bytes.
const MaxLength = 128

// New returns a freshly generated identifier.
func New() string {
	return uuid.NewString()
}

// Validate reports whether rawID is acceptable as a node or edge identifier.
func Validate(rawID string) error {
	if rawID == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if len(rawID) > MaxLength {
		return fmt.Errorf("identifier is longer than %d bytes", MaxLength)
	}
	if !utf8.ValidString(rawID) {
		return fmt.Errorf("identifier is not valid UTF-8: %q", rawID)
	}
	for _, r := range rawID {
		if unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return fmt.Errorf("identifier contains whitespace or control characters: %q", rawID)
		}
	}
	return nil
}

// OrNew returns rawID unchanged when it is set and a generated identifier
// otherwise.
func OrNew(rawID string) string {
	if rawID == "" {
		return New()
	}
	return rawID
}
