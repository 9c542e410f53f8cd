/*
Package reconcile merges loosely structured model output with grounding
citations into deduplicated, sorted display items.
*/
package reconcile

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Metadata is one record of the JSON array the news and highlights prompts ask for.
// Only Date and Time are taken from it; titles and URLs come from citations.
type Metadata struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Lang  string `json:"lang,omitempty"`
}

var fenceRe = regexp.MustCompile("```json\\n?|\\n?```")

// ParseMetadata strips markdown code fences from text and decodes it as a JSON
// array of Metadata. Anything that is not an array yields an empty set, and
// array elements that do not decode as objects are skipped.
func ParseMetadata(text string) []Metadata {
	clean := strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil
	}

	meta := make([]Metadata, 0, len(raw))
	for _, r := range raw {
		var m Metadata
		if err := json.Unmarshal(r, &m); err != nil {
			continue
		}
		meta = append(meta, m)
	}
	return meta
}
