package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"smartchat/dataset"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 540
	DefaultBins   = 20
	DefaultTopN   = 15

	// labelWidth is the display width bar labels are truncated to.
	labelWidth = 18
)

var (
	barColor   = drawing.ColorFromHex("1f77b4")
	edgeColor  = drawing.ColorBlack
	titleStyle = gochart.Style{FontSize: 13}
)

// Renderer draws directives. It holds only settings, so one Renderer can be
// shared by every session.
type Renderer struct {
	width  int
	height int
	bins   int
	topN   int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the output image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// NewRenderer returns a Renderer with 20 histogram bins and 15 bars.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width:  DefaultWidth,
		height: DefaultHeight,
		bins:   DefaultBins,
		topN:   DefaultTopN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws d from ds. Errors are always *ChartError.
func (r *Renderer) Render(d Directive, ds *dataset.Dataset) (*Image, error) {
	if ds == nil {
		return nil, &ChartError{Kind: ErrNoDataset, Type: d.Type}
	}
	switch d.Type {
	case TypeHistogram:
		return r.renderHistogram(d.Column, ds)
	case TypeBar:
		return r.renderBar(d.XColumn, d.YColumn, ds)
	default:
		return nil, &ChartError{Kind: ErrUnsupportedType, Type: d.Type}
	}
}

func (r *Renderer) renderHistogram(column string, ds *dataset.Dataset) (*Image, error) {
	col, ok := ds.Column(column)
	if !ok {
		return nil, unknownColumn(column, []string{column}, ds.Columns())
	}
	values := col.NumericValues()
	if len(values) == 0 {
		return nil, &ChartError{Kind: ErrNonNumeric, Type: TypeHistogram, Column: column}
	}
	if err := checkFinite(TypeHistogram, values); err != nil {
		return nil, err
	}

	edges, counts := histogramBins(values, r.bins)
	xs, ys := stepOutline(edges, counts)
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	title := fmt.Sprintf("Distribution of column '%s'", column)
	graph := gochart.Chart{
		Title:      title,
		TitleStyle: titleStyle,
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 30, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:           column,
			ValueFormatter: numberFormatter,
			Range:          &gochart.ContinuousRange{Min: edges[0], Max: edges[len(edges)-1]},
		},
		YAxis: gochart.YAxis{
			Name:           "Frequency",
			ValueFormatter: numberFormatter,
			Range:          &gochart.ContinuousRange{Min: 0, Max: float64(maxCount) * 1.05},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    column,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: edgeColor,
					StrokeWidth: 1,
					FillColor:   barColor,
				},
			},
		},
	}
	return encode(title, TypeHistogram, graph.Render)
}

func (r *Renderer) renderBar(xColumn, yColumn string, ds *dataset.Dataset) (*Image, error) {
	requested := []string{xColumn, yColumn}
	xCol, ok := ds.Column(xColumn)
	if !ok {
		return nil, unknownColumn(xColumn, requested, ds.Columns())
	}
	yCol, ok := ds.Column(yColumn)
	if !ok {
		return nil, unknownColumn(yColumn, requested, ds.Columns())
	}
	if !yCol.IsNumeric() {
		return nil, &ChartError{Kind: ErrNonNumeric, Type: TypeBar, Column: yColumn}
	}

	rows := topRows(xCol, yCol, r.topN)
	if len(rows) == 0 {
		return nil, &ChartError{Kind: ErrNonNumeric, Type: TypeBar, Column: yColumn}
	}
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.Value
	}
	if err := checkFinite(TypeBar, values); err != nil {
		return nil, err
	}

	bars := make([]gochart.Value, len(rows))
	lo, hi := 0.0, 0.0
	for i, row := range rows {
		bars[i] = gochart.Value{
			Label: truncateLabel(row.Label),
			Value: row.Value,
			Style: gochart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		if row.Value < lo {
			lo = row.Value
		}
		if row.Value > hi {
			hi = row.Value
		}
	}
	if lo == hi {
		hi = lo + 1
	}

	title := fmt.Sprintf("Bar chart comparing '%s' and '%s'", xColumn, yColumn)
	graph := gochart.BarChart{
		Title:      title,
		TitleStyle: titleStyle,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   barWidth(r.width, len(bars)),
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 90}},
		XAxis:      gochart.Style{TextRotationDegrees: 45},
		YAxis: gochart.YAxis{
			Name:           yColumn,
			ValueFormatter: numberFormatter,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi * 1.05},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	return encode(title, TypeBar, graph.Render)
}

// checkFinite rejects non-finite values; go-chart cannot lay out an unbounded axis.
func checkFinite(chartType string, values []float64) error {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return &ChartError{Kind: ErrBackend, Type: chartType, Err: errNonFinite}
		}
	}
	return nil
}

// encode runs a go-chart render into a buffer owned by this call.
func encode(title, chartType string, render func(gochart.RendererProvider, io.Writer) error) (*Image, error) {
	var buf bytes.Buffer
	if err := render(gochart.PNG, &buf); err != nil {
		return nil, &ChartError{Kind: ErrBackend, Type: chartType, Err: err}
	}
	return &Image{PNG: buf.Bytes(), Title: title}, nil
}

func barWidth(width, n int) int {
	if n <= 0 {
		return 0
	}
	w := (width - 120) * 2 / (3 * n)
	if w < 8 {
		return 8
	}
	if w > 60 {
		return 60
	}
	return w
}

func numberFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}
