/*
Package notify renders the dashboard to HTML and plain text, writes it to disk,
prints it to the console and delivers it by email.
*/
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// RenderedMessage is one rendering of the dashboard.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// HTMLRenderer renders the dashboard as a standalone HTML page with a plain
// text fallback.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	t := template.Must(template.New("dashboard").Parse(dashboardHTMLTemplate))
	return &HTMLRenderer{tmpl: t}
}

func (r *HTMLRenderer) Render(v View) (*RenderedMessage, error) {
	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, v); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: fmt.Sprintf("SHOTIME: 大谷翔平 %s", v.GeneratedAt.Format("2006-01-02 15:04")),
		Text:    renderPlainText(v),
		HTML:    htmlBuf.String(),
	}, nil
}

// WriteFile replaces the file at path with the rendered HTML. The page is
// written to a temporary file first so a browser never sees a partial page.
func WriteFile(path string, msg *RenderedMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shotime-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(msg.HTML); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write dashboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dashboard file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set dashboard permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move dashboard to %s: %w", path, err)
	}
	return nil
}

// renderPlainText produces the console and email fallback version.
func renderPlainText(v View) string {
	var sb strings.Builder

	sb.WriteString("SHOTIME - 大谷翔平\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	if v.Refreshing {
		sb.WriteString("更新中...\n")
	}
	sb.WriteString("\n")

	sb.WriteString("本季數據\n")
	sb.WriteString(strings.Repeat("-", 20) + "\n")
	switch {
	case v.Stats.Loading:
		sb.WriteString("Loading...\n")
	case v.Stats.Ready:
		for _, l := range v.Stats.Lines {
			if l.Header {
				sb.WriteString(fmt.Sprintf("\n## %s\n", l.Text))
			} else {
				sb.WriteString(fmt.Sprintf("• %s\n", l.Text))
			}
		}
		if len(v.Stats.Sources) > 0 {
			sb.WriteString("\n資料來源:\n")
			for _, s := range v.Stats.Sources {
				sb.WriteString(fmt.Sprintf("  %s <%s>\n", s.Label, s.URL))
			}
		} else {
			sb.WriteString("\n無直接來源連結。\n")
		}
	}
	sb.WriteString("\n")

	sb.WriteString("最新快訊\n")
	sb.WriteString(strings.Repeat("-", 20) + "\n")
	switch {
	case v.News.Loading:
		sb.WriteString("Loading...\n")
	case v.News.Ready:
		news := v.ActiveNews()
		if len(news) == 0 {
			if v.ActiveTab == "en" {
				sb.WriteString("No English news found.\n")
			} else {
				sb.WriteString("暫無中文新聞。\n")
			}
		}
		for _, n := range news {
			sb.WriteString(fmt.Sprintf("• %s\n  %s%s\n", n.Title, formatWhen(n.Date, n.Time), n.URL))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("精彩片段 (YouTube)\n")
	sb.WriteString(strings.Repeat("-", 20) + "\n")
	switch {
	case v.Highlights.Loading:
		sb.WriteString("Loading...\n")
	case v.Highlights.Ready:
		if len(v.Highlights.Items) == 0 {
			sb.WriteString("搜尋結果中未找到影片。\n")
		}
		for _, h := range v.Highlights.Items {
			sb.WriteString(fmt.Sprintf("• %s\n  %s%s\n", h.Title, formatWhen(h.Date, h.Time), h.URL))
		}
	}

	return sb.String()
}

func formatWhen(date, tm string) string {
	when := strings.TrimSpace(date + " " + tm)
	if when == "" {
		return ""
	}
	return "[" + when + "] "
}
