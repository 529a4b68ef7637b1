package upload

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UniqueName builds "<unix-millis>-<uuid>-<original>" so concurrent uploads never share a name.
func UniqueName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString(), sanitizeFilename(original))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(filepath.ToSlash(name))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == ".." || base == "_" {
		return "image"
	}
	return base
}
