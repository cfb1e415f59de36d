// Package interpret decides whether a model reply is a chart request or text
// to show as-is.
package interpret

import (
	"strings"

	"github.com/tidwall/gjson"

	"smartchat/chart"
)

// Kind is the outcome of interpreting a reply.
type Kind int

const (
	PlainText Kind = iota
	ChartRequest
)

func (k Kind) String() string {
	if k == ChartRequest {
		return "chart_request"
	}
	return "plain_text"
}

// Result holds the interpretation. Text is always the raw reply; Directive
// is set only for ChartRequest.
type Result struct {
	Kind      Kind
	Text      string
	Directive chart.Directive
}

// Interpret classifies raw. A reply is a chart request only when the whole
// text is a JSON object with a "plot" member. Anything else, including JSON
// wrapped in prose or code fences, is plain text.
func Interpret(raw string) Result {
	text := Result{Kind: PlainText, Text: raw}
	src := raw
	if !gjson.Valid(src) {
		relaxed, changed := relaxLiterals(raw)
		if !changed || !gjson.Valid(relaxed) {
			return text
		}
		src = relaxed
	}
	doc := gjson.Parse(src)
	if !doc.IsObject() {
		return text
	}
	plot := doc.Get("plot")
	if !plot.Exists() {
		return text
	}

	// A plot member that is not an object still counts as a request; it
	// yields an empty directive that the renderer reports as unsupported.
	var d chart.Directive
	if plot.IsObject() {
		d = chart.Directive{
			Type:    fieldString(plot, "type"),
			Column:  fieldString(plot, "column"),
			XColumn: fieldString(plot, "x_column"),
			YColumn: fieldString(plot, "y_column"),
		}
	}
	return Result{Kind: ChartRequest, Text: raw, Directive: d}
}

func fieldString(obj gjson.Result, key string) string {
	v := obj.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

var nonFiniteLiterals = []string{"-Infinity", "Infinity", "NaN"}

// relaxLiterals replaces bare NaN, Infinity and -Infinity with null so that
// replies written by Python-style encoders still parse. Strings are copied
// untouched.
func relaxLiterals(raw string) (string, bool) {
	var sb strings.Builder
	sb.Grow(len(raw))
	changed := false
	inString, escaped := false, false
	for i := 0; i < len(raw); {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			sb.WriteByte(c)
			i++
			continue
		}
		if c == '"' {
			inString = true
			sb.WriteByte(c)
			i++
			continue
		}
		if lit := literalAt(raw, i); lit != "" {
			sb.WriteString("null")
			i += len(lit)
			changed = true
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String(), changed
}

func literalAt(s string, i int) string {
	if i > 0 && isWordByte(s[i-1]) {
		return ""
	}
	for _, lit := range nonFiniteLiterals {
		if !strings.HasPrefix(s[i:], lit) {
			continue
		}
		if end := i + len(lit); end < len(s) && isWordByte(s[end]) {
			return ""
		}
		return lit
	}
	return ""
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
