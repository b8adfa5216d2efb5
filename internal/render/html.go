package render

import (
	"html/template"
	"io"

	"github.com/kernel/socialpost/internal/post"
	"github.com/samber/lo"
)

// CardView is the template model for one post.
type CardView struct {
	ID        string
	Platform  string
	Icon      string
	Color     string
	Character string
	Handle    string
	When      string
	Content   string
	Style     string
	Metrics   string
}

// Page is the template model for the feed page.
type Page struct {
	Title string
	Cards []CardView
	// Interactive adds delete and generate controls backed by the panel API.
	Interactive bool
}

// View converts a post to its card model.
func View(p post.Post) CardView {
	info, _ := p.Platform.Info()
	return CardView{
		ID:        p.ID,
		Platform:  lo.CoalesceOrEmpty(p.PlatformName, info.Name),
		Icon:      lo.CoalesceOrEmpty(p.PlatformIcon, info.Icon),
		Color:     lo.CoalesceOrEmpty(info.Color, "#888888"),
		Character: p.CharacterName,
		Handle:    Handle(p.CharacterName),
		When:      CardTime(p.Platform, p.CreatedAt),
		Content:   p.Content,
		Style:     string(p.Style),
		Metrics:   MetricsLine(p),
	}
}

// NewPage builds the page model for a feed.
func NewPage(posts []post.Post, interactive bool) Page {
	return Page{
		Title:       "โพสต์ของตัวละคร",
		Cards:       lo.Map(posts, func(p post.Post, _ int) CardView { return View(p) }),
		Interactive: interactive,
	}
}

// HTML writes a self-contained page for the feed.
func HTML(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

var pageTemplate = template.Must(template.New("feed").Parse(`<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: #f0f2f5; margin: 0; padding: 24px; }
.feed { max-width: 560px; margin: 0 auto; }
.card { background: #fff; border-radius: 12px; border-top: 4px solid; padding: 12px 16px; margin-bottom: 16px; box-shadow: 0 1px 3px rgba(0,0,0,.12); }
.platform { font-weight: bold; }
.author { font-weight: bold; margin-top: 8px; }
.handle, .when, .metrics { color: #65676b; font-size: 90%; }
.content { white-space: pre-wrap; margin: 12px 0; }
.empty { text-align: center; color: #65676b; }
button { cursor: pointer; }
</style>
</head>
<body>
<div class="feed">
<h1>{{.Title}}</h1>
{{- if .Interactive}}
<p><button onclick="fetch('/api/posts',{method:'POST'}).then(()=>location.reload())">สร้างโพสต์</button>
<button onclick="if(confirm('ต้องการลบโพสต์ทั้งหมดใช่ไหม?'))fetch('/api/posts?confirm=true',{method:'DELETE'}).then(()=>location.reload())">ล้างทั้งหมด</button></p>
{{- end}}
{{- range .Cards}}
<div class="card" id="post-{{.ID}}" style="border-top-color: {{.Color}}">
<div class="platform">{{.Icon}} {{.Platform}}</div>
<div class="author">{{.Character}} <span class="handle">{{.Handle}}</span></div>
<div class="when">{{.When}} · {{.Style}}</div>
<div class="content">{{.Content}}</div>
<div class="metrics">{{.Metrics}}</div>
{{- if $.Interactive}}
<button onclick="fetch('/api/posts/{{.ID}}',{method:'DELETE'}).then(()=>location.reload())">ลบ</button>
{{- end}}
</div>
{{- else}}
<p class="empty">ยังไม่มีโพสต์</p>
{{- end}}
</div>
</body>
</html>
`))
