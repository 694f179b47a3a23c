package schedule

// ResolveCover selects the representative image of a film: the gallery
// entry at coverIndex when it is still in bounds, then the poster, then the
// first gallery image.  It returns "" when nothing is available.
func ResolveCover(gallery []string, coverIndex *int, posterURL string) string {
	if img := galleryAt(gallery, coverIndex); img != "" {
		return img
	}
	if posterURL != "" {
		return posterURL
	}
	if len(gallery) > 0 {
		return gallery[0]
	}
	return ""
}

// ResolveLogo returns the gallery entry at logoIndex, or "" when the index
// is unset or out of range.  Logos have no fallback.
func ResolveLogo(gallery []string, logoIndex *int) string {
	return galleryAt(gallery, logoIndex)
}

// galleryAt is a bounds-checked lookup; galleries may shrink after an index
// was recorded.
func galleryAt(gallery []string, idx *int) string {
	if idx == nil || *idx < 0 || *idx >= len(gallery) {
		return ""
	}
	return gallery[*idx]
}
