package reconcile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shanehull/shotime/internal/types"
)

var youtubeIDRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

const thumbnailURLTemplate = "https://img.youtube.com/vi/%s/mqdefault.jpg"

// Reconciler builds panel items from a GroundedResult. The zero value uses
// MatchMetadata.
type Reconciler struct {
	Match Matcher
}

var defaultReconciler = Reconciler{Match: MatchMetadata}

func News(result types.GroundedResult) []types.NewsItem {
	return defaultReconciler.News(result)
}

func Highlights(result types.GroundedResult) []types.VideoItem {
	return defaultReconciler.Highlights(result)
}

func (r Reconciler) matcher() Matcher {
	if r.Match == nil {
		return MatchMetadata
	}
	return r.Match
}

// News maps citations to news items. A citation whose cleaned URI is not an
// http URL is kept only when a title-matched metadata record supplies one.
func (r Reconciler) News(result types.GroundedResult) []types.NewsItem {
	meta := ParseMetadata(result.Text)
	match := r.matcher()

	items := make([]types.NewsItem, 0, len(result.Citations))
	for _, c := range result.Citations {
		title := c.Title
		url := CleanURL(c.URI)

		if !strings.HasPrefix(url, "http") {
			m, ok := matchTitle(meta, title)
			if !ok || !strings.HasPrefix(m.URL, "http") {
				continue
			}
			url = m.URL
		}

		item := types.NewsItem{
			Title: title,
			URL:   url,
			Lang:  DetectLang(title),
		}
		if m, ok := match(meta, url, title); ok {
			item.Date, item.Time = m.Date, m.Time
		}
		items = append(items, item)
	}

	return dedupAndSort(items, func(it types.NewsItem) (string, string, string) {
		return it.URL, it.Date, it.Time
	})
}

// Highlights maps citations carrying both a URI and a title to video items.
func (r Reconciler) Highlights(result types.GroundedResult) []types.VideoItem {
	meta := ParseMetadata(result.Text)
	match := r.matcher()

	items := make([]types.VideoItem, 0, len(result.Citations))
	for _, c := range result.Citations {
		if c.URI == "" || c.Title == "" {
			continue
		}

		item := types.VideoItem{
			Title:     c.Title,
			URL:       c.URI,
			Thumbnail: Thumbnail(c.URI),
		}
		if m, ok := match(meta, c.URI, c.Title); ok {
			item.Date, item.Time = m.Date, m.Time
		}
		items = append(items, item)
	}

	return dedupAndSort(items, func(it types.VideoItem) (string, string, string) {
		return it.URL, it.Date, it.Time
	})
}

// CleanURL trims trailing punctuation the model tends to attach to links.
func CleanURL(raw string) string {
	return strings.TrimSpace(strings.TrimRight(raw, ".,;)"))
}

// DetectLang returns LangCN when title contains a CJK unified ideograph.
func DetectLang(title string) types.Lang {
	for _, r := range title {
		if r >= 0x4e00 && r <= 0x9fa5 {
			return types.LangCN
		}
	}
	return types.LangEN
}

// FilterLang returns the items shown under the given language tab.
func FilterLang(items []types.NewsItem, lang types.Lang) []types.NewsItem {
	out := make([]types.NewsItem, 0, len(items))
	for _, it := range items {
		if it.Lang == lang {
			out = append(out, it)
		}
	}
	return out
}

// Thumbnail returns the medium-quality thumbnail for a YouTube watch, embed or
// short link, or "" for anything else.
func Thumbnail(url string) string {
	m := youtubeIDRe.FindStringSubmatch(url)
	if len(m) < 2 || m[1] == "" {
		return ""
	}
	return fmt.Sprintf(thumbnailURLTemplate, m[1])
}

// dedupAndSort keeps the first item per URL, then orders parseable timestamps
// newest first, followed by items with an unparseable date and finally undated
// items. Ties keep encounter order.
func dedupAndSort[T any](items []T, key func(T) (url, date, tm string)) []T {
	seen := make(map[string]struct{}, len(items))
	unique := make([]T, 0, len(items))
	for _, it := range items {
		url, _, _ := key(it)
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		unique = append(unique, it)
	}

	type ranked struct {
		rank int
		at   time.Time
	}
	ranks := make([]ranked, len(unique))
	for i, it := range unique {
		_, date, tm := key(it)
		switch {
		case date == "":
			ranks[i] = ranked{rank: 2}
		default:
			if at, ok := parseTimestamp(date, tm); ok {
				ranks[i] = ranked{rank: 0, at: at}
			} else {
				ranks[i] = ranked{rank: 1}
			}
		}
	}

	idx := make([]int, len(unique))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ra, rb := ranks[idx[a]], ranks[idx[b]]
		if ra.rank != rb.rank {
			return ra.rank < rb.rank
		}
		if ra.rank == 0 {
			return ra.at.After(rb.at)
		}
		return false
	})

	sorted := make([]T, len(unique))
	for i, j := range idx {
		sorted[i] = unique[j]
	}
	return sorted
}

var timestampLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

func parseTimestamp(date, tm string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	tm = strings.TrimSpace(tm)

	if tm != "" {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, date+" "+tm); err == nil {
				return t, true
			}
		}
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
