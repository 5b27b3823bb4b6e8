package persistence

import (
	"fmt"
	"regexp"
	"time"
)

// DocumentInfo describes a stored document without its payload.
type DocumentInfo struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateKey reports whether key is usable by every store. Keys double as
// file names, so path separators and leading dots are rejected.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
