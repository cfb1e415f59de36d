package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// DefaultMaxBytes caps the size of one CSV source.
const DefaultMaxBytes int64 = 50 << 20

// Holder owns the dataset of one conversation. It is not safe for concurrent
// use; the owning session serialises access.
type Holder struct {
	current  *Dataset
	maxBytes int64
}

// NewHolder returns an empty holder. maxBytes <= 0 selects DefaultMaxBytes.
func NewHolder(maxBytes int64) *Holder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Holder{maxBytes: maxBytes}
}

// Load reads src and replaces the held dataset on success. On failure the
// previous dataset is kept.
func (h *Holder) Load(ctx context.Context, src Source) (*Dataset, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		var le *DataLoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, loadError(LoadUnreachable, src.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, h.maxBytes+1))
	if err != nil {
		return nil, loadError(LoadUnreachable, src.Name(), err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, loadError(LoadTooLarge, src.Name(),
			fmt.Errorf("file is larger than %s", humanize.Bytes(uint64(h.maxBytes))))
	}

	ds, err := Parse(bytes.NewReader(data), src.Name())
	if err != nil {
		return nil, err
	}
	h.current = ds
	return ds, nil
}

// Current returns the held dataset, or nil.
func (h *Holder) Current() *Dataset {
	return h.current
}

// Clear discards the held dataset. Calling it with nothing held is a no-op.
func (h *Holder) Clear() {
	h.current = nil
}

// Describe summarises the held dataset; ok is false when none is held.
func (h *Holder) Describe() (Summary, bool) {
	if h.current == nil {
		return Summary{}, false
	}
	return h.current.Describe(), true
}
