package constants

import "strings"

// Image count bounds for a single extraction attempt (front, optionally back).
const (
	MinImagesPerAttempt = 1
	MaxImagesPerAttempt = 2
)

// MaxImageMB is the per-image size gate before an upload is accepted.
const MaxImageMB = 10

// AllowedExtensions holds the accepted file extensions for card images.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// MediaTypes maps a normalized extension to its declared media type.
var MediaTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a file extension is accepted for ingestion.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
