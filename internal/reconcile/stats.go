package reconcile

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/shanehull/shotime/internal/types"
)

// StatLine is one cleaned line of the stats answer.
type StatLine struct {
	Text   string
	Header bool
}

// Source is a labelled link shown under the stats panel.
type Source struct {
	Label string
	URL   string
}

var (
	bulletRe           = regexp.MustCompile(`^[-•]\s*`)
	statsHeaderMarkers = []string{"大谷翔平", "打擊數據", "投球數據"}
	statsIntroMarkers  = []string{"以下為大谷翔平2025年賽季的統計數據", "以下是大谷翔平最近完整賽季"}
)

// StatsLines splits the bullet text of the stats answer into display lines,
// dropping markdown markers, bullets and the intro sentence the model adds
// despite being told not to.
func StatsLines(text string) []StatLine {
	var lines []StatLine
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		clean := strings.NewReplacer("*", "", "#", "").Replace(raw)
		clean = strings.TrimSpace(clean)
		clean = strings.TrimSpace(bulletRe.ReplaceAllString(clean, ""))
		if clean == "" || containsAny(clean, statsIntroMarkers) {
			continue
		}

		lines = append(lines, StatLine{
			Text:   clean,
			Header: containsAny(clean, statsHeaderMarkers),
		})
	}
	return lines
}

// StatsSources returns links for the first n citations, skipping any without a
// URI. The label is the citation title, or the URI host when untitled.
func StatsSources(result types.GroundedResult, n int) []Source {
	citations := result.Citations
	if len(citations) > n {
		citations = citations[:n]
	}

	sources := make([]Source, 0, len(citations))
	for _, c := range citations {
		if c.URI == "" {
			continue
		}
		label := c.Title
		if label == "" {
			label = Hostname(c.URI)
		}
		sources = append(sources, Source{Label: label, URL: c.URI})
	}
	return sources
}

// Hostname returns the host part of raw, or raw itself when it does not parse.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
