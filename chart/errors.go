package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

var errNonFinite = errors.New("axis limits cannot be NaN or Inf")

// ErrorKind classifies chart failures.
type ErrorKind string

const (
	ErrNoDataset       ErrorKind = "no_dataset"
	ErrUnknownColumn   ErrorKind = "unknown_column"
	ErrUnsupportedType ErrorKind = "unsupported_type"
	ErrNonNumeric      ErrorKind = "non_numeric"
	ErrBackend         ErrorKind = "backend"
)

// ChartError describes why a directive could not be rendered. Its Error text
// is shown to the user as-is.
type ChartError struct {
	Kind ErrorKind
	Type string
	// Column is the offending column; Columns lists every column the
	// directive referenced.
	Column     string
	Columns    []string
	Suggestion string
	Err        error
}

func (e *ChartError) Error() string {
	switch e.Kind {
	case ErrNoDataset:
		return "Error: No CSV data is loaded."
	case ErrUnknownColumn:
		var msg string
		if len(e.Columns) == 2 {
			msg = fmt.Sprintf("Error: Column '%s' or '%s' not found.", e.Columns[0], e.Columns[1])
		} else {
			msg = fmt.Sprintf("Error: Column '%s' not found.", e.Column)
		}
		if e.Suggestion != "" {
			msg += fmt.Sprintf(" Did you mean '%s'?", e.Suggestion)
		}
		return msg
	case ErrUnsupportedType:
		t := e.Type
		if t == "" {
			t = "<missing>"
		}
		return fmt.Sprintf("Error: Plot type '%s' not supported.", t)
	case ErrNonNumeric:
		return fmt.Sprintf("Error: Column '%s' has no numeric values to plot.", e.Column)
	default:
		return fmt.Sprintf("Error occurred while creating plot: %v", e.Err)
	}
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

func unknownColumn(missing string, requested []string, available []string) *ChartError {
	return &ChartError{
		Kind:       ErrUnknownColumn,
		Column:     missing,
		Columns:    requested,
		Suggestion: suggestColumn(missing, available),
	}
}

// suggestColumn returns the closest existing column name, or "".
func suggestColumn(name string, columns []string) string {
	if name == "" || len(columns) == 0 {
		return ""
	}
	for _, c := range columns {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	if matches := fuzzy.Find(name, columns); len(matches) > 0 {
		return matches[0].Str
	}
	// Requested name longer than the column ("age_years" for "age").
	best, bestScore := "", 0
	for _, c := range columns {
		m := fuzzy.Find(c, []string{name})
		if len(m) > 0 && (best == "" || m[0].Score > bestScore) {
			best, bestScore = c, m[0].Score
		}
	}
	return best
}
