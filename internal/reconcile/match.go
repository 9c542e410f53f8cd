package reconcile

import "strings"

// Matcher finds the metadata record describing the citation with the given url
// and title.
type Matcher func(meta []Metadata, url, title string) (Metadata, bool)

// MatchMetadata returns the first record whose URL equals url or whose title
// contains, or is contained in, title. Empty titles never match by containment.
func MatchMetadata(meta []Metadata, url, title string) (Metadata, bool) {
	for _, m := range meta {
		if m.URL != "" && m.URL == url {
			return m, true
		}
		if titlesOverlap(m.Title, title) {
			return m, true
		}
	}
	return Metadata{}, false
}

// matchTitle is the title-only lookup used to recover a URL for a citation
// whose own URI is unusable.
func matchTitle(meta []Metadata, title string) (Metadata, bool) {
	for _, m := range meta {
		if titlesOverlap(m.Title, title) {
			return m, true
		}
	}
	return Metadata{}, false
}

func titlesOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
