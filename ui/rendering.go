package ui

import (
	"fmt"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"smartchat/model"
)

const minRenderWidth = 20

// renderMarkdown renders assistant text for the terminal. Autolinks stay
// plain so the terminal can detect them itself.
func renderMarkdown(text string, width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}
	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(text))
	return strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")
}

// formatUserMessage prefixes every line with a vertical bar.
func formatUserMessage(header, text string) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(UserStyle.Render("│ ") + line + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderTurns draws the whole conversation. saved maps turn indexes to the
// file a chart was written to.
func renderTurns(turns []model.Turn, saved map[int]string, width int) string {
	if len(turns) == 0 {
		return DimStyle.Render("No messages yet. Start chatting!")
	}

	var b strings.Builder
	for i, t := range turns {
		timestamp := DimStyle.Render(t.Timestamp.Format("[15:04]"))
		switch t.Role {
		case model.RoleUser:
			text := t.Text
			if t.HasImage() {
				text = strings.TrimSpace(text + "\n" + DimStyle.Render(imageLabel(t)))
			}
			b.WriteString(formatUserMessage(timestamp+" "+UserStyle.Render("You"), text))
		case model.RoleAssistant:
			role := AssistantStyle.Render("Assistant")
			body := renderMarkdown(t.Text, width-4)
			if t.Error {
				body = ErrorStyle.Render(t.Text)
			}
			if t.HasChart() {
				if path, ok := saved[i]; ok {
					body += "\n" + HighlightStyle.Render("Chart saved to "+path)
				} else {
					body += "\n" + DimStyle.Render("(chart not saved)")
				}
			}
			fmt.Fprintf(&b, "%s %s\n%s\n\n", timestamp, role, body)
		default:
			style := NoticeStyle
			if t.Error {
				style = ErrorStyle
			}
			text := t.Text
			if t.HasImage() {
				text += " " + DimStyle.Render(imageLabel(t))
			}
			fmt.Fprintf(&b, "%s %s\n\n", timestamp, style.Render(text))
		}
	}
	return b.String()
}

func imageLabel(t model.Turn) string {
	name := t.Image.Name
	if name == "" {
		name = "image"
	}
	name = runewidth.Truncate(name, 40, "…")
	return fmt.Sprintf("[%s %dx%d, %s]", name, t.Image.Width, t.Image.Height, t.Image.Size())
}
