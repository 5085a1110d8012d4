package domain

import (
	"fmt"
	"path"
	"strings"
)

// ValidateSetID accepts only slash-separated paths relative to the question source root.
// Absolute paths, URLs, parent segments, query or fragment parts and escapes are rejected.
func ValidateSetID(setID string) error {
	if setID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSetID)
	}
	if strings.HasPrefix(setID, "/") || strings.ContainsAny(setID, `\:?#%`) {
		return fmt.Errorf("%w: %q is not a relative path", ErrInvalidSetID, setID)
	}
	for _, seg := range strings.Split(setID, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q leaves the question root", ErrInvalidSetID, setID)
		}
	}
	if clean := path.Clean(setID); clean == "." {
		return fmt.Errorf("%w: %q names no file", ErrInvalidSetID, setID)
	}
	return nil
}
