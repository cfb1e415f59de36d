package server

import (
	"embed"
	"html/template"

	"github.com/dustin/go-humanize"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"smartchat/dataset"
	"smartchat/media"
	"smartchat/model"
	"smartchat/session"
)

//go:embed templates/index.html
var templates embed.FS

const previewRows = 5

type turnView struct {
	Index    int
	Role     string
	Body     template.HTML
	Error    bool
	ImageURL string
	ChartURL string
}

type pageView struct {
	Version      string
	Turns        []turnView
	Dataset      *dataset.Summary
	Header       []string
	Rows         [][]string
	PendingImage *media.Image
	MaxUpload    string
}

func parsePage() (*template.Template, error) {
	return template.ParseFS(templates, "templates/index.html")
}

// renderMarkdown converts message text to HTML. Raw HTML in the text is
// dropped and only http(s), ftp, mailto and relative links stay clickable. Parsers are single-use, so one is built per call.
func renderMarkdown(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.Safelink | html.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML([]byte(text), p, r))
}

func buildPage(sess *session.Session, opts Options) pageView {
	turns := sess.Turns()
	view := pageView{
		Version:      opts.Version,
		Turns:        make([]turnView, len(turns)),
		PendingImage: sess.PendingImage(),
		MaxUpload:    humanize.Bytes(uint64(opts.MaxUploadBytes)),
	}
	for i, t := range turns {
		tv := turnView{Index: i, Role: string(t.Role), Error: t.Error}
		if t.Role == model.RoleUser {
			// User text is shown verbatim.
			tv.Body = template.HTML(template.HTMLEscapeString(t.Text))
		} else {
			tv.Body = renderMarkdown(t.Text)
		}
		if t.HasImage() {
			tv.ImageURL = imageURL(i)
		}
		if t.HasChart() {
			tv.ChartURL = chartURL(i)
		}
		view.Turns[i] = tv
	}
	if sum, ok := sess.DatasetSummary(); ok {
		view.Dataset = &sum
		view.Header, view.Rows = sess.DatasetPreview(previewRows)
	}
	return view
}
