package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartchat/dataset"
)

func loadCSV(t *testing.T, data string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Parse(strings.NewReader(data), "test.csv")
	require.NoError(t, err)
	return ds
}

func chartErr(t *testing.T, err error) *ChartError {
	t.Helper()
	var ce *ChartError
	require.True(t, errors.As(err, &ce), "got %v", err)
	return ce
}

func TestRenderHistogram(t *testing.T) {
	ds := loadCSV(t, "age,name\n31,a\n25,b\n40,c\nNA,d\n52,e\n")
	img, err := NewRenderer(WithSize(400, 300)).Render(Histogram("age"), ds)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
	assert.Contains(t, img.Title, "age")
}

func TestRenderBar(t *testing.T) {
	var b strings.Builder
	b.WriteString("region,sales\n")
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "r%d,%d\n", i, i*10)
	}
	ds := loadCSV(t, b.String())

	img, err := NewRenderer().Render(Bar("region", "sales"), ds)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(img.PNG))
	require.NoError(t, err)
}

func TestRenderErrors(t *testing.T) {
	ds := loadCSV(t, "age,name\n31,a\n25,b\n")
	inf := loadCSV(t, "n,s\na,1\nb,inf\nc,-Infinity\n")
	r := NewRenderer()
	nonFinite := "Error occurred while creating plot: axis limits cannot be NaN or Inf"

	tests := []struct {
		name string
		d    Directive
		ds   *dataset.Dataset
		kind ErrorKind
		msg  string
	}{
		{"no dataset", Histogram("age"), nil, ErrNoDataset, "Error: No CSV data is loaded."},
		{"unsupported", Directive{Type: "scatter"}, ds, ErrUnsupportedType, "Error: Plot type 'scatter' not supported."},
		{"missing type", Directive{}, ds, ErrUnsupportedType, "Error: Plot type '<missing>' not supported."},
		{"unknown column", Histogram("ag"), ds, ErrUnknownColumn, "Error: Column 'ag' not found. Did you mean 'age'?"},
		{"unknown bar column", Bar("nme", "age"), ds, ErrUnknownColumn, "Error: Column 'nme' or 'age' not found. Did you mean 'name'?"},
		{"text histogram", Histogram("name"), ds, ErrNonNumeric, "Error: Column 'name' has no numeric values to plot."},
		{"text bar y", Bar("age", "name"), ds, ErrNonNumeric, "Error: Column 'name' has no numeric values to plot."},
		{"infinite bar", Bar("n", "s"), inf, ErrBackend, nonFinite},
		{"infinite histogram", Histogram("s"), inf, ErrBackend, nonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.Render(tt.d, tt.ds)
			assert.Nil(t, img)
			ce := chartErr(t, err)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.msg, ce.Error())
		})
	}
}

func TestHistogramBins(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	edges, counts := histogramBins(values, 10)
	require.Len(t, edges, 11)
	require.Len(t, counts, 10)
	assert.Equal(t, 0.0, edges[0])
	assert.Equal(t, 10.0, edges[10])
	// 9 and 10 share the closed last bin.
	assert.Equal(t, 2, counts[9])

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, len(values), total)
}

func TestHistogramBinsConstant(t *testing.T) {
	edges, counts := histogramBins([]float64{3, 3, 3}, DefaultBins)
	assert.Equal(t, 2.5, edges[0])
	assert.Equal(t, 3.5, edges[DefaultBins])
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 3, total)
}

func TestTopRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("k,v\n")
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "k%d,%d\n", i, i)
	}
	b.WriteString("tie,20\nskip,NA\n")
	ds := loadCSV(t, b.String())
	x, _ := ds.Column("k")
	y, _ := ds.Column("v")

	rows := topRows(x, y, DefaultTopN)
	require.Len(t, rows, DefaultTopN)
	assert.Equal(t, "k20", rows[0].Label)
	assert.Equal(t, "tie", rows[1].Label)
	assert.Equal(t, 20.0, rows[1].Value)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].Value, rows[i].Value)
	}
	for _, r := range rows {
		assert.NotEqual(t, "skip", r.Label)
	}
}

func TestSuggestColumn(t *testing.T) {
	cols := []string{"age", "total_sales", "Region"}
	assert.Equal(t, "Region", suggestColumn("region", cols))
	assert.Equal(t, "total_sales", suggestColumn("sales", cols))
	assert.Equal(t, "age", suggestColumn("age_years", cols))
	assert.Equal(t, "", suggestColumn("zzz", cols))
}
