package notify

import (
	"time"

	"github.com/shanehull/shotime/internal/dashboard"
	"github.com/shanehull/shotime/internal/reconcile"
	"github.com/shanehull/shotime/internal/types"
)

const statsSourceLimit = 3

// Link is a static outbound link shown in the banner.
type Link struct {
	Label string
	URL   string
}

var SocialLinks = []Link{
	{Label: "Instagram", URL: "https://www.instagram.com/shoheiohtani/"},
	{Label: "Dodgers YouTube", URL: "https://www.youtube.com/@Dodgers"},
}

type StatsPanel struct {
	Loading bool
	Ready   bool
	Lines   []reconcile.StatLine
	Sources []reconcile.Source
}

// NewsLink is a news item with the host shown next to its date.
type NewsLink struct {
	types.NewsItem
	Host string
}

type NewsPanel struct {
	Loading bool
	Ready   bool
	CN      []NewsLink
	EN      []NewsLink
}

type HighlightsPanel struct {
	Loading bool
	Ready   bool
	Items   []types.VideoItem
}

// View is everything the renderers need for one frame of the dashboard.
type View struct {
	GeneratedAt time.Time
	Generation  uint64
	Refreshing  bool
	AutoReload  bool
	ActiveTab   types.Lang
	Links       []Link
	Stats       StatsPanel
	News        NewsPanel
	Highlights  HighlightsPanel
}

// BuildView reconciles the raw results of snap into panel contents.
func BuildView(snap dashboard.Snapshot, activeTab types.Lang, now time.Time) View {
	if activeTab != types.LangEN {
		activeTab = types.LangCN
	}

	v := View{
		GeneratedAt: now,
		Generation:  snap.Generation,
		Refreshing:  snap.Loading.Any(),
		ActiveTab:   activeTab,
		Links:       SocialLinks,
		Stats:       StatsPanel{Loading: snap.Loading.Stats},
		News:        NewsPanel{Loading: snap.Loading.News},
		Highlights:  HighlightsPanel{Loading: snap.Loading.Highlights},
	}

	if snap.Stats != nil {
		v.Stats.Ready = true
		v.Stats.Lines = reconcile.StatsLines(snap.Stats.Text)
		v.Stats.Sources = reconcile.StatsSources(*snap.Stats, statsSourceLimit)
	}

	if snap.News != nil {
		v.News.Ready = true
		items := reconcile.News(*snap.News)
		v.News.CN = newsLinks(reconcile.FilterLang(items, types.LangCN))
		v.News.EN = newsLinks(reconcile.FilterLang(items, types.LangEN))
	}

	if snap.Highlights != nil {
		v.Highlights.Ready = true
		v.Highlights.Items = reconcile.Highlights(*snap.Highlights)
	}

	return v
}

// ActiveNews returns the items under the selected tab.
func (v View) ActiveNews() []NewsLink {
	if v.ActiveTab == types.LangEN {
		return v.News.EN
	}
	return v.News.CN
}

func newsLinks(items []types.NewsItem) []NewsLink {
	links := make([]NewsLink, 0, len(items))
	for _, it := range items {
		links = append(links, NewsLink{NewsItem: it, Host: reconcile.Hostname(it.URL)})
	}
	return links
}
