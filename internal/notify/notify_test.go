package notify

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"
	gomail "gopkg.in/mail.v2"

	"github.com/shanehull/shotime/internal/config"
	"github.com/shanehull/shotime/internal/dashboard"
	"github.com/shanehull/shotime/internal/types"
)

var testNow = time.Date(2025, 6, 3, 9, 30, 0, 0, time.UTC)

func readySnapshot() dashboard.Snapshot {
	return dashboard.Snapshot{
		Generation: 1,
		Stats: &types.GroundedResult{
			Text: "### 打擊數據\n* 全壘打 (HR): 55\n- 打擊率 (AVG): .282",
			Citations: []types.Citation{
				{URI: "https://www.mlb.com/player/shohei-ohtani-660271", Title: "mlb.com"},
			},
		},
		News: &types.GroundedResult{
			Text: `[{"title":"Ohtani hits 50th HR","url":"https://en.example/50","date":"2025-06-02","time":"09:00"}]`,
			Citations: []types.Citation{
				{URI: "https://en.example/50", Title: "Ohtani hits 50th HR"},
				{URI: "https://tw.example/50", Title: "大谷翔平擊出第50轟"},
			},
		},
		Highlights: &types.GroundedResult{
			Text: "[]",
			Citations: []types.Citation{
				{URI: "https://youtu.be/dQw4w9WgXcQ", Title: "Ohtani top plays"},
				{URI: "https://www.mlb.com/video/ohtani", Title: "MLB video"},
			},
		},
	}
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractText(c))
	}
	return sb.String()
}

func byID(doc *html.Node, id string) *html.Node {
	nodes := findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func render(t *testing.T, v View) (*RenderedMessage, *html.Node) {
	t.Helper()
	msg, err := NewHTMLRenderer().Render(v)
	require.NoError(t, err)
	doc, err := html.Parse(strings.NewReader(msg.HTML))
	require.NoError(t, err)
	return msg, doc
}

func TestBuildView(t *testing.T) {
	v := BuildView(readySnapshot(), types.LangCN, testNow)

	assert.False(t, v.Refreshing)
	assert.Equal(t, types.LangCN, v.ActiveTab)
	assert.True(t, v.Stats.Ready)
	require.Len(t, v.Stats.Lines, 3)
	assert.True(t, v.Stats.Lines[0].Header)
	require.Len(t, v.News.CN, 1)
	require.Len(t, v.News.EN, 1)
	assert.Equal(t, "tw.example", v.News.CN[0].Host)
	assert.Equal(t, "2025-06-02", v.News.EN[0].Date)
	assert.Equal(t, v.News.CN, v.ActiveNews())
	require.Len(t, v.Highlights.Items, 2)
	assert.Equal(t, SocialLinks, v.Links)

	v = BuildView(readySnapshot(), types.LangEN, testNow)
	assert.Equal(t, v.News.EN, v.ActiveNews())
}

func TestBuildViewLoading(t *testing.T) {
	snap := dashboard.Snapshot{Loading: types.LoadingState{Stats: false, News: true, Highlights: true}}
	snap.Stats = readySnapshot().Stats

	v := BuildView(snap, "", testNow)

	assert.True(t, v.Refreshing)
	assert.Equal(t, types.LangCN, v.ActiveTab)
	assert.True(t, v.Stats.Ready)
	assert.True(t, v.News.Loading)
	assert.False(t, v.News.Ready)
	assert.True(t, v.Highlights.Loading)
}

func TestRenderPanels(t *testing.T) {
	msg, doc := render(t, BuildView(readySnapshot(), types.LangEN, testNow))

	assert.Contains(t, msg.Subject, "2025-06-03 09:30")

	refresh := findAll(doc, func(n *html.Node) bool { return hasClass(n, "refresh") })
	require.Len(t, refresh, 1)
	assert.Equal(t, "更新數據", extractText(refresh[0]))

	stats := byID(doc, "stats")
	require.NotNil(t, stats)
	headers := findAll(stats, func(n *html.Node) bool { return hasClass(n, "stat-header") })
	require.Len(t, headers, 1)
	assert.Equal(t, "打擊數據", extractText(headers[0]))
	assert.Contains(t, extractText(stats), "全壘打 (HR): 55")
	assert.Contains(t, extractText(stats), "mlb.com")

	news := byID(doc, "news")
	require.NotNil(t, news)
	cn := findAll(news, func(n *html.Node) bool { return hasClass(n, "panel-cn") })
	en := findAll(news, func(n *html.Node) bool { return hasClass(n, "panel-en") })
	require.Len(t, cn, 1)
	require.Len(t, en, 1)
	assert.Contains(t, extractText(cn[0]), "大谷翔平擊出第50轟")
	assert.NotContains(t, extractText(cn[0]), "Ohtani hits 50th HR")
	assert.Contains(t, extractText(en[0]), "Ohtani hits 50th HR")
	assert.Contains(t, extractText(en[0]), "2025-06-02")

	tabEN := byID(doc, "tab-en")
	require.NotNil(t, tabEN)
	_, checked := attrPresent(tabEN, "checked")
	assert.True(t, checked)
	_, checked = attrPresent(byID(doc, "tab-cn"), "checked")
	assert.False(t, checked)

	highlights := byID(doc, "highlights")
	require.NotNil(t, highlights)
	imgs := findAll(highlights, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "img" })
	require.Len(t, imgs, 1)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/mqdefault.jpg", attr(imgs[0], "src"))
	placeholders := findAll(highlights, func(n *html.Node) bool { return hasClass(n, "thumb-placeholder") })
	assert.Len(t, placeholders, 1)

	links := findAll(doc, func(n *html.Node) bool { return hasClass(n, "social") })
	require.Len(t, links, 2)
	assert.Equal(t, "https://www.instagram.com/shoheiohtani/", attr(links[0], "href"))
	assert.Equal(t, "https://www.youtube.com/@Dodgers", attr(links[1], "href"))
}

func attrPresent(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func TestRenderLoadingAndEmptyStates(t *testing.T) {
	snap := dashboard.Snapshot{
		Loading: types.LoadingState{Highlights: true},
		Stats:   &types.GroundedResult{Text: "Failed to fetch data.", Citations: []types.Citation{}},
		News:    &types.GroundedResult{Text: "Failed to fetch data.", Citations: []types.Citation{}},
	}

	msg, doc := render(t, BuildView(snap, types.LangCN, testNow))

	refresh := findAll(doc, func(n *html.Node) bool { return hasClass(n, "refresh") })
	require.Len(t, refresh, 1)
	assert.Equal(t, "更新中...", extractText(refresh[0]))

	stats := extractText(byID(doc, "stats"))
	assert.Contains(t, stats, "Failed to fetch data.")
	assert.Contains(t, stats, "無直接來源連結。")

	news := extractText(byID(doc, "news"))
	assert.Contains(t, news, "暫無中文新聞。")
	assert.Contains(t, news, "No English news found.")

	skeletons := findAll(byID(doc, "highlights"), func(n *html.Node) bool { return hasClass(n, "skeleton") })
	assert.NotEmpty(t, skeletons)

	assert.Contains(t, msg.Text, "更新中...")
	assert.Contains(t, msg.Text, "暫無中文新聞。")
	assert.Contains(t, msg.Text, "Loading...")
}

func TestRenderEscapesUnsafeLinks(t *testing.T) {
	snap := dashboard.Snapshot{
		Highlights: &types.GroundedResult{
			Citations: []types.Citation{{URI: "javascript:alert(1)", Title: "<b>bad</b>"}},
		},
	}

	msg, _ := render(t, BuildView(snap, types.LangCN, testNow))

	assert.NotContains(t, msg.HTML, "javascript:alert(1)")
	assert.NotContains(t, msg.HTML, "<b>bad</b>")
}

func TestRenderAutoReload(t *testing.T) {
	v := BuildView(dashboard.Snapshot{}, types.LangCN, testNow)
	v.AutoReload = true
	msg, _ := render(t, v)
	assert.Contains(t, msg.HTML, `http-equiv="refresh"`)
}

func TestPlainText(t *testing.T) {
	msg, _ := render(t, BuildView(readySnapshot(), types.LangCN, testNow))

	assert.Contains(t, msg.Text, "## 打擊數據")
	assert.Contains(t, msg.Text, "• 全壘打 (HR): 55")
	assert.Contains(t, msg.Text, "大谷翔平擊出第50轟")
	assert.NotContains(t, msg.Text, "Ohtani hits 50th HR")
	assert.Contains(t, msg.Text, "• Ohtani top plays")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shotime.html")
	msg := &RenderedMessage{HTML: "<html>first</html>"}

	require.NoError(t, WriteFile(path, msg))
	msg.HTML = "<html>second</html>"
	require.NoError(t, WriteFile(path, msg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>second</html>", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, &RenderedMessage{Text: "body\n"}, "/tmp/shotime.html")

	out := buf.String()
	assert.Contains(t, out, "body")
	assert.Contains(t, out, "Dashboard written to /tmp/shotime.html.")
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestEmailSender(t *testing.T) {
	cfg := config.EmailConfig{
		SMTPServer: "smtp.example.com",
		SMTPPort:   587,
		SMTPUser:   "me@example.com",
		SMTPPass:   "secret",
		FromEmail:  "me@example.com",
		ToEmail:    "you@example.com",
		Enabled:    true,
	}
	msg := &RenderedMessage{Subject: "SHOTIME", Text: "text", HTML: "<p>html</p>"}

	fake := &fakeDialer{}
	s := NewEmailSender(cfg, zaptest.NewLogger(t))
	s.dialer = fake

	require.NoError(t, s.Send(msg))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"you@example.com"}, fake.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"SHOTIME"}, fake.sent[0].GetHeader("Subject"))

	fake.err = errors.New("smtp down")
	assert.Error(t, s.Send(msg))

	cfg.Enabled = false
	disabled := NewEmailSender(cfg, zaptest.NewLogger(t))
	disabled.dialer = fake
	fake.sent = nil
	require.NoError(t, disabled.Send(msg))
	assert.Empty(t, fake.sent)
}
