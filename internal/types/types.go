package types

// Lang tags a news item with the language inferred from its title.
type Lang string

const (
	LangEN Lang = "en"
	LangCN Lang = "cn"
)

// Citation is one web source reported in the grounding metadata of a response.
type Citation struct {
	URI   string
	Title string
}

// GroundedResult is the normalized outcome of one grounded query. Text is never
// empty after a fetch completes and Citations is never nil.
type GroundedResult struct {
	Text      string
	Citations []Citation
}

type NewsItem struct {
	Title string
	URL   string
	Date  string
	Time  string
	Lang  Lang
}

type VideoItem struct {
	Title     string
	URL       string
	Date      string
	Time      string
	Thumbnail string
}

// LoadingState holds one flag per panel. A flag is true while its fetch is pending.
type LoadingState struct {
	Stats      bool
	News       bool
	Highlights bool
}

func (l LoadingState) Any() bool {
	return l.Stats || l.News || l.Highlights
}
