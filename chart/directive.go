// Package chart renders chart directives against the loaded dataset into PNG
// images.
package chart

// Supported directive types.
const (
	TypeHistogram = "histogram"
	TypeBar       = "bar"
)

// Directive is a request to draw one chart. Type is kept as the raw string
// the model produced so unsupported types can be reported by name.
type Directive struct {
	Type    string `json:"type"`
	Column  string `json:"column,omitempty"`
	XColumn string `json:"x_column,omitempty"`
	YColumn string `json:"y_column,omitempty"`
}

// Histogram builds a histogram directive.
func Histogram(column string) Directive {
	return Directive{Type: TypeHistogram, Column: column}
}

// Bar builds a bar chart directive.
func Bar(xColumn, yColumn string) Directive {
	return Directive{Type: TypeBar, XColumn: xColumn, YColumn: yColumn}
}

// Image is a rendered chart.
type Image struct {
	PNG   []byte
	Title string
}
