package notify

const dashboardHTMLTemplate = `<!DOCTYPE html>
<html lang="zh-Hant">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  {{if .AutoReload}}<meta http-equiv="refresh" content="5" />{{end}}
  <title>SHOTIME</title>
  <style>
    body {
      margin: 0;
      background-color: #0f172a;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      color: #f1f5f9;
      line-height: 1.5;
    }

    a {
      color: inherit;
      text-decoration: none;
    }

    .header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      padding: 16px 32px;
      border-bottom: 1px solid #334155;
    }

    .brand {
      font-size: 20px;
      font-weight: 800;
      letter-spacing: 0.05em;
    }

    .refresh {
      padding: 8px 16px;
      border-radius: 999px;
      font-size: 14px;
      font-weight: 500;
      background: #2563eb;
      color: #ffffff;
    }

    .refresh.busy {
      background: #1e293b;
      color: #64748b;
    }

    main {
      max-width: 1280px;
      margin: 0 auto;
      padding: 32px;
    }

    .banner {
      margin-bottom: 32px;
      padding: 32px;
      border-radius: 16px;
      border: 1px solid #334155;
      background: linear-gradient(90deg, #1e3a8a 0%, #0f172a 100%);
    }

    .banner h2 {
      margin: 0 0 8px;
      font-size: 40px;
      font-weight: 800;
    }

    .banner p {
      margin: 0;
      color: #bfdbfe;
    }

    .social {
      display: inline-block;
      margin: 24px 12px 0 0;
      padding: 8px 16px;
      border-radius: 8px;
      background: #bd3c3c;
      font-weight: 500;
    }

    .grid {
      display: grid;
      grid-template-columns: repeat(auto-fit, minmax(320px, 1fr));
      gap: 24px;
    }

    .card {
      background: #1e293b;
      border: 1px solid #334155;
      border-radius: 12px;
      overflow: hidden;
    }

    .card-title {
      margin: 0;
      padding: 20px 24px;
      font-size: 18px;
      font-weight: 700;
      border-bottom: 1px solid #334155;
    }

    .card-body {
      padding: 16px 24px;
    }

    .skeleton {
      height: 16px;
      margin: 12px 0;
      border-radius: 4px;
      background: #334155;
    }

    .stat-list {
      margin: 0;
      padding: 0;
      list-style: none;
    }

    .stat-list li {
      margin-bottom: 10px;
      color: #cbd5e1;
    }

    .stat-list li.stat-header {
      margin-top: 20px;
      font-size: 18px;
      font-weight: 700;
      color: #ffffff;
    }

    .sources {
      padding: 12px 24px;
      background: #0f172a;
      border-top: 1px solid #334155;
      font-size: 12px;
    }

    .sources a {
      display: inline-block;
      margin: 4px 6px 0 0;
      padding: 2px 8px;
      border-radius: 4px;
      color: #60a5fa;
      background: #1e3a8a33;
    }

    .tab-input {
      display: none;
    }

    .tab-label {
      display: inline-block;
      margin: 12px 0 0 24px;
      padding: 4px 12px;
      font-size: 12px;
      border-radius: 6px;
      color: #94a3b8;
      cursor: pointer;
    }

    #tab-cn:checked ~ .tab-label-cn,
    #tab-en:checked ~ .tab-label-en {
      background: #2563eb;
      color: #ffffff;
    }

    .tab-panel {
      display: none;
    }

    #tab-cn:checked ~ .tab-panels .panel-cn,
    #tab-en:checked ~ .tab-panels .panel-en {
      display: block;
    }

    .item {
      display: block;
      margin-bottom: 12px;
      padding: 12px;
      border: 1px solid #334155;
      border-radius: 8px;
      background: #0f172a;
    }

    .item-title {
      font-size: 14px;
      font-weight: 500;
      color: #dbeafe;
    }

    .item-meta {
      margin-top: 6px;
      font-size: 12px;
      color: #64748b;
    }

    .item-meta span {
      margin-right: 12px;
    }

    .video {
      display: flex;
      align-items: center;
    }

    .thumb {
      width: 128px;
      height: 72px;
      flex-shrink: 0;
      margin-right: 12px;
      border-radius: 4px;
      object-fit: cover;
      background: #020617;
    }

    .thumb-placeholder {
      display: flex;
      align-items: center;
      justify-content: center;
      color: #dc2626;
      font-size: 28px;
    }

    .empty {
      padding: 32px 0;
      text-align: center;
      color: #64748b;
    }

    .footer {
      padding: 16px 32px;
      font-size: 12px;
      color: #64748b;
      text-align: center;
    }
  </style>
</head>
<body>
  <div class="header">
    <div class="brand">SHOTIME</div>
    <span class="refresh{{if .Refreshing}} busy{{end}}">{{if .Refreshing}}更新中...{{else}}更新數據{{end}}</span>
  </div>

  <main>
    <div class="banner">
      <h2>SHOTIME</h2>
      <p>掌握棒球獨角獸的即時情報。</p>
      {{range .Links}}
      <a class="social" href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Label}}</a>
      {{end}}
    </div>

    <div class="grid">
      <div class="card" id="stats">
        <h2 class="card-title">本季數據</h2>
        {{if .Stats.Loading}}
        <div class="card-body">
          <div class="skeleton"></div>
          <div class="skeleton"></div>
          <div class="skeleton"></div>
        </div>
        {{else if .Stats.Ready}}
        <div class="card-body">
          <ul class="stat-list">
            {{range .Stats.Lines}}
            {{if .Header}}<li class="stat-header">{{.Text}}</li>{{else}}<li>{{.Text}}</li>{{end}}
            {{end}}
          </ul>
        </div>
        <div class="sources">
          <div>資料來源</div>
          {{range .Stats.Sources}}
          <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Label}}</a>
          {{else}}
          <span>無直接來源連結。</span>
          {{end}}
        </div>
        {{end}}
      </div>

      <div class="card" id="news">
        <h2 class="card-title">最新快訊</h2>
        {{if .News.Loading}}
        <div class="card-body">
          <div class="skeleton"></div>
          <div class="skeleton"></div>
          <div class="skeleton"></div>
        </div>
        {{else if .News.Ready}}
        <input type="radio" name="news-tab" id="tab-cn" class="tab-input" {{if ne .ActiveTab "en"}}checked{{end}} />
        <input type="radio" name="news-tab" id="tab-en" class="tab-input" {{if eq .ActiveTab "en"}}checked{{end}} />
        <label for="tab-cn" class="tab-label tab-label-cn">中文</label>
        <label for="tab-en" class="tab-label tab-label-en">English</label>
        <div class="tab-panels card-body">
          <div class="tab-panel panel-cn" data-lang="cn">
            {{range .News.CN}}{{template "news-item" .}}{{else}}<div class="empty">暫無中文新聞。</div>{{end}}
          </div>
          <div class="tab-panel panel-en" data-lang="en">
            {{range .News.EN}}{{template "news-item" .}}{{else}}<div class="empty">No English news found.</div>{{end}}
          </div>
        </div>
        {{end}}
      </div>

      <div class="card" id="highlights">
        <h2 class="card-title">精彩片段 (YouTube)</h2>
        {{if .Highlights.Loading}}
        <div class="card-body">
          <div class="skeleton"></div>
          <div class="skeleton"></div>
        </div>
        {{else if .Highlights.Ready}}
        <div class="card-body">
          {{range .Highlights.Items}}
          <a class="item video" href="{{.URL}}" target="_blank" rel="noopener noreferrer">
            {{if .Thumbnail}}<img class="thumb" src="{{.Thumbnail}}" alt="Thumbnail" />{{else}}<div class="thumb thumb-placeholder">&#9654;</div>{{end}}
            <div>
              <div class="item-title">{{.Title}}</div>
              <div class="item-meta">
                {{if .Date}}<span class="date">{{.Date}}</span>{{end}}
                {{if .Time}}<span class="time">{{.Time}}</span>{{end}}
                <span>YouTube</span>
              </div>
            </div>
          </a>
          {{else}}
          <div class="empty">搜尋結果中未找到影片。</div>
          {{end}}
        </div>
        {{end}}
      </div>
    </div>
  </main>

  <div class="footer">
    Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} by <a href="https://github.com/shanehull/shotime" target="_blank" rel="noopener">shotime</a>
  </div>
</body>
</html>
{{define "news-item"}}
<a class="item" href="{{.URL}}" target="_blank" rel="noopener noreferrer">
  <div class="item-title">{{.Title}}</div>
  <div class="item-meta">
    {{if .Date}}<span class="date">{{.Date}}</span>{{end}}
    {{if .Time}}<span class="time">{{.Time}}</span>{{end}}
    {{if .Host}}<span class="host">{{.Host}}</span>{{end}}
  </div>
</a>
{{end}}`
