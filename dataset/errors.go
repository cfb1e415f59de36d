package dataset

import "fmt"

// LoadErrorKind classifies dataset load failures.
type LoadErrorKind string

const (
	LoadMalformed   LoadErrorKind = "malformed"
	LoadUnreachable LoadErrorKind = "unreachable"
	LoadEmpty       LoadErrorKind = "empty"
	LoadTooLarge    LoadErrorKind = "too_large"
)

// DataLoadError is returned when a CSV source cannot be turned into a Dataset.
type DataLoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s CSV: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s CSV %q: %v", e.Kind, e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown in the conversation.
func (e *DataLoadError) UserMessage() string {
	return fmt.Sprintf("Error reading CSV: %v", e.Err)
}

func loadError(kind LoadErrorKind, source string, err error) *DataLoadError {
	return &DataLoadError{Kind: kind, Source: source, Err: err}
}
