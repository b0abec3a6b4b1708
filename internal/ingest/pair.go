package ingest

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	frontSuffix = "_front"
	backSuffix  = "_back"
)

// PairImages decides which image files make up the attempt a new path
// belongs to, using the "<stem>_front.<ext>" / "<stem>_back.<ext>" naming
// convention:
//
//   - a front image pairs with its back sibling when one exists
//   - a back image whose front sibling exists yields nothing (the front
//     event owns the pair, otherwise the same card would be extracted twice)
//   - anything else is a single-image attempt
//
// The returned slice is in upload order: front first, back second.
func PairImages(path string) []string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch {
	case strings.HasSuffix(stem, frontSuffix):
		base := strings.TrimSuffix(stem, frontSuffix)
		if back := findSibling(filepath.Dir(path), base+backSuffix); back != "" {
			return []string{path, back}
		}
		return []string{path}
	case strings.HasSuffix(stem, backSuffix):
		base := strings.TrimSuffix(stem, backSuffix)
		if front := findSibling(filepath.Dir(path), base+frontSuffix); front != "" {
			return nil
		}
		return []string{path}
	default:
		return []string{path}
	}
}

// Fixed lookup order so pairing stays deterministic when siblings exist in
// more than one format.
var siblingExts = []string{"jpg", "jpeg", "png"}

// findSibling looks for "<stem>.<ext>" in dir across the allowed extensions.
func findSibling(dir, stem string) string {
	for _, ext := range siblingExts {
		candidate := filepath.Join(dir, stem+"."+ext)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
