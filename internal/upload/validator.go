// Package upload decides whether an incoming file is an acceptable image.
package upload

import (
	"mime"
	"path/filepath"
	"strings"
)

// Validator gates uploads on the client-supplied filename.
//
// This is a heuristic, not content sniffing: a mislabelled file passes.
// The contract is that it fails closed — no extension, an extension outside
// the allow-set, or an extension whose registered content type is not an
// image all reject the file.
type Validator struct {
	allowed map[string]bool
}

// NewValidator builds a Validator from the configured extension allow-set
// (e.g. ["png", "jpg", "jpeg", "gif"]). Extensions are matched without the
// leading dot, case-insensitively.
func NewValidator(extensions []string) *Validator {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = true
		}
	}
	return &Validator{allowed: allowed}
}

// Allowed reports whether the filename looks like an acceptable image.
func (v *Validator) Allowed(filename string) bool {
	if filename == "" {
		return false
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}

	if !v.allowed[strings.TrimPrefix(ext, ".")] {
		return false
	}

	// The extension must map to an image content type. This catches an
	// allow-set misconfigured with non-image extensions.
	contentType := mime.TypeByExtension(ext)
	return strings.HasPrefix(contentType, "image")
}

// Ext returns the lowercased extension of filename without the dot, or ""
// when there is none. Used to build generated stored names.
func Ext(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
