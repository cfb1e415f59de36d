package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiveRows = "a,b\n1,x\n2,y\n3,z\n4,w\n5,v\n"

func TestLoadDescribe(t *testing.T) {
	h := NewHolder(0)
	_, ok := h.Describe()
	assert.False(t, ok)

	ds, err := h.Load(context.Background(), FileSource{FileName: "small.csv", Data: []byte(fiveRows)})
	require.NoError(t, err)
	assert.Equal(t, "small.csv", ds.Name())

	sum, ok := h.Describe()
	require.True(t, ok)
	assert.Equal(t, 5, sum.RowCount)
	assert.Equal(t, 2, sum.ColumnCount)
	assert.Equal(t, []string{"a", "b"}, sum.ColumnNames)
}

func TestHead(t *testing.T) {
	ds, err := Parse(strings.NewReader(fiveRows), "small.csv")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "x"}, {"2", "y"}}, ds.Head(2))
	assert.Len(t, ds.Head(50), 5)
	assert.Empty(t, ds.Head(-1))
}

func TestColumnKinds(t *testing.T) {
	csv := "age,name,score\n31,ann,1.5\n,bob,NA\n40,cy,2\n"
	ds, err := Parse(strings.NewReader(csv), "people.csv")
	require.NoError(t, err)

	age, ok := ds.Column("age")
	require.True(t, ok)
	assert.True(t, age.IsNumeric())
	assert.True(t, age.IsMissing(1))
	assert.Equal(t, []float64{31, 40}, age.NumericValues())

	name, _ := ds.Column("name")
	assert.False(t, name.IsNumeric())
	_, ok = name.Float(0)
	assert.False(t, ok)
	assert.Equal(t, "bob", name.Text(1))

	score, _ := ds.Column("score")
	v, ok := score.Float(0)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	_, ok = score.Float(1)
	assert.False(t, ok)
}

func TestParseHeaderNormalisation(t *testing.T) {
	csv := "\ufeffid,,id,id\n1,2,3,4\n"
	ds, err := Parse(strings.NewReader(csv), "dupes.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Unnamed: 1", "id.1", "id.2"}, ds.Columns())
}

func TestParseShortRowsArePadded(t *testing.T) {
	ds, err := Parse(strings.NewReader("a,b,c\n1,2\n3,4,5\n"), "short.csv")
	require.NoError(t, err)
	c, _ := ds.Column("c")
	assert.True(t, c.IsMissing(0))
	assert.Equal(t, []float64{5}, c.NumericValues())
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind LoadErrorKind
	}{
		{"empty", "", LoadEmpty},
		{"header only", "a,b\n", LoadEmpty},
		{"too many fields", "a,b\n1,2,3\n", LoadMalformed},
		{"bad quote", "a,b\n1,\"unterminated\n", LoadMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data), "bad.csv")
			var le *DataLoadError
			require.True(t, errors.As(err, &le), "got %v", err)
			assert.Equal(t, tt.kind, le.Kind)
			assert.True(t, strings.HasPrefix(le.UserMessage(), "Error reading CSV: "))
		})
	}
}

func TestFailedLoadKeepsPreviousDataset(t *testing.T) {
	h := NewHolder(0)
	_, err := h.Load(context.Background(), FileSource{FileName: "good.csv", Data: []byte(fiveRows)})
	require.NoError(t, err)

	_, err = h.Load(context.Background(), FileSource{FileName: "bad.csv", Data: []byte("")})
	require.Error(t, err)

	require.NotNil(t, h.Current())
	assert.Equal(t, "good.csv", h.Current().Name())
}

func TestLoadTooLarge(t *testing.T) {
	h := NewHolder(8)
	_, err := h.Load(context.Background(), FileSource{FileName: "big.csv", Data: []byte(fiveRows)})
	var le *DataLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LoadTooLarge, le.Kind)
	assert.Nil(t, h.Current())
}

func TestClearIsIdempotent(t *testing.T) {
	h := NewHolder(0)
	h.Clear()
	_, err := h.Load(context.Background(), FileSource{FileName: "x.csv", Data: []byte(fiveRows)})
	require.NoError(t, err)
	h.Clear()
	h.Clear()
	assert.Nil(t, h.Current())
}

func TestURLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/data/sales.csv" {
			w.Write([]byte("region,total\nnorth,10\nsouth,20\n"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	h := NewHolder(0)
	src := URLSource{URL: srv.URL + "/data/sales.csv", Client: srv.Client()}
	assert.Equal(t, "sales.csv", src.Name())

	ds, err := h.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.RowCount())

	_, err = h.Load(context.Background(), URLSource{URL: srv.URL + "/missing.csv", Client: srv.Client()})
	var le *DataLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LoadUnreachable, le.Kind)
	assert.Equal(t, "sales.csv", h.Current().Name())
}

func TestURLSourceRejectsScheme(t *testing.T) {
	_, err := NewHolder(0).Load(context.Background(), URLSource{URL: "file:///etc/passwd"})
	var le *DataLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LoadUnreachable, le.Kind)
}

func TestPathSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.csv")
	require.NoError(t, os.WriteFile(path, []byte(fiveRows), 0o600))

	h := NewHolder(0)
	ds, err := h.Load(context.Background(), PathSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "small.csv", ds.Name())

	_, err = h.Load(context.Background(), PathSource{Path: filepath.Join(t.TempDir(), "nope.csv")})
	var le *DataLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LoadUnreachable, le.Kind)
}

func TestSourceFor(t *testing.T) {
	assert.Equal(t, URLSource{URL: "https://example.com/a.csv"}, SourceFor("https://example.com/a.csv"))
	assert.Equal(t, URLSource{URL: "HTTP://example.com/a.csv"}, SourceFor("HTTP://example.com/a.csv"))
	assert.Equal(t, PathSource{Path: "data/a.csv"}, SourceFor("data/a.csv"))
	assert.Equal(t, PathSource{Path: "ftp://example.com/a.csv"}, SourceFor("ftp://example.com/a.csv"))
}
