package provider

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/sjson"

	"smartchat/chart"
	"smartchat/model"
)

const (
	dataInfoMarker = "Data info: CSV data has columns: "
	questionMarker = "User question: '"
)

var (
	plotWords     = []string{"plot", "chart", "graph", "draw", "histogram", "visuali"}
	greetingWords = regexp.MustCompile(`(?i)^\s*(hello|hi|hey|good (morning|afternoon|evening))\b`)
)

// OfflineProvider answers from canned keyword rules without any network
// access. It understands the prompt layout the session composes, so asking it
// to plot a named column yields a real chart directive.
type OfflineProvider struct {
	delay time.Duration
}

// NewOfflineProvider returns an offline responder. delay paces the streamed
// chunks.
func NewOfflineProvider(delay time.Duration) *OfflineProvider {
	return &OfflineProvider{delay: delay}
}

// Name implements model.Provider.
func (p *OfflineProvider) Name() string {
	return string(ProviderTypeOffline)
}

// Models implements model.Provider.
func (p *OfflineProvider) Models() (text, vision string) {
	return "offline", "offline"
}

// Generate implements model.Provider. The answer is streamed word by word.
func (p *OfflineProvider) Generate(ctx context.Context, req model.Request, callback model.StreamCallback) error {
	answer := p.answer(req)
	for _, word := range strings.SplitAfter(answer, " ") {
		if p.delay > 0 {
			select {
			case <-ctx.Done():
				return model.AsModelError(ctx.Err())
			case <-time.After(p.delay):
			}
		} else if err := ctx.Err(); err != nil {
			return model.AsModelError(err)
		}
		if callback == nil || word == "" {
			continue
		}
		if err := callback(word); err != nil {
			return model.AsModelError(err)
		}
	}
	return nil
}

func (p *OfflineProvider) answer(req model.Request) string {
	columns, question := splitPrompt(req.Prompt)
	lower := strings.ToLower(question)

	if columns != nil && containsAny(lower, plotWords) {
		if d, ok := pickDirective(lower, columns); ok {
			if out, err := directiveJSON(d); err == nil {
				return out
			}
		}
		return fmt.Sprintf("I can plot any of these columns: %s. Which one would you like?",
			strings.Join(columns, ", "))
	}

	switch {
	case req.HasImage():
		img := req.Image
		return fmt.Sprintf("I can't look at images while offline, but I received %s: a %dx%d %s image of %s.",
			quoteName(img.Name), img.Width, img.Height, img.MIMEType, img.Size())
	case greetingWords.MatchString(question):
		return "Hello! I'm running in offline mode. Upload a CSV file and ask me to plot a column."
	case strings.Contains(lower, "help"):
		return "Upload a CSV file, then ask for a histogram of a numeric column or a bar chart of two columns. " +
			"You can also attach an image."
	case columns != nil:
		return fmt.Sprintf("Your data has %d columns: %s. Ask me to plot one of them.",
			len(columns), strings.Join(columns, ", "))
	default:
		return "I'm running in offline mode and can only answer simple questions. " +
			"Set GOOGLE_API_KEY to talk to Gemini."
	}
}

// splitPrompt extracts the dataset columns and the user question from a
// composed prompt. columns is nil when the prompt carries no dataset info.
func splitPrompt(prompt string) (columns []string, question string) {
	i := strings.Index(prompt, dataInfoMarker)
	if i < 0 {
		return nil, prompt
	}
	rest := prompt[i+len(dataInfoMarker):]
	end := strings.Index(rest, ".\n")
	if end < 0 {
		return nil, prompt
	}
	columns = strings.Split(rest[:end], ", ")

	question = rest[end+2:]
	if j := strings.Index(question, questionMarker); j >= 0 {
		question = strings.TrimSuffix(question[j+len(questionMarker):], "'")
	}
	return columns, question
}

// pickDirective finds the columns named in the question. Two columns with a
// bar keyword or "by" yield a bar chart; otherwise the first named column
// gets a histogram.
func pickDirective(question string, columns []string) (chart.Directive, bool) {
	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, c := range columns {
		if c == "" {
			continue
		}
		if pos := strings.Index(question, strings.ToLower(c)); pos >= 0 {
			hits = append(hits, hit{c, pos})
		}
	}
	if len(hits) == 0 {
		return chart.Directive{}, false
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	if len(hits) >= 2 {
		// "sales by region" puts region on the x axis.
		if strings.Contains(question, " by ") {
			return chart.Bar(hits[1].name, hits[0].name), true
		}
		if strings.Contains(question, "bar") {
			return chart.Bar(hits[0].name, hits[1].name), true
		}
	}
	return chart.Histogram(hits[0].name), true
}

func directiveJSON(d chart.Directive) (string, error) {
	fields := [][2]string{{"plot.type", d.Type}}
	if d.Type == chart.TypeBar {
		fields = append(fields, [2]string{"plot.x_column", d.XColumn}, [2]string{"plot.y_column", d.YColumn})
	} else {
		fields = append(fields, [2]string{"plot.column", d.Column})
	}
	return setFields("", fields)
}

// setFields applies each path/value pair to doc in order.
func setFields(doc string, fields [][2]string) (string, error) {
	var err error
	for _, f := range fields {
		if doc, err = sjson.Set(doc, f[0], f[1]); err != nil {
			return "", fmt.Errorf("encode %s: %w", f[0], err)
		}
	}
	return doc, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func quoteName(name string) string {
	if name == "" {
		return "an image"
	}
	return "'" + name + "'"
}
