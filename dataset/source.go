package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds URL downloads when no client is supplied.
const DefaultFetchTimeout = 30 * time.Second

// Source yields raw CSV bytes.
type Source interface {
	// Name is the display label of the resulting dataset.
	Name() string
	// Open returns the CSV stream. Failures are reported as DataLoadError.
	Open(ctx context.Context) (io.ReadCloser, error)
	// Kind is a short label for metrics ("file" or "url").
	Kind() string
}

// FileSource is an uploaded file held in memory.
type FileSource struct {
	FileName string
	Data     []byte
}

func (s FileSource) Name() string { return s.FileName }

func (s FileSource) Kind() string { return "file" }

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// PathSource reads a CSV file from disk.
type PathSource struct {
	Path string
}

func (s PathSource) Name() string { return filepath.Base(s.Path) }

func (s PathSource) Kind() string { return "file" }

func (s PathSource) Open(context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, loadError(LoadUnreachable, s.Path, err)
	}
	return f, nil
}

// SourceFor picks a URLSource for http(s) addresses and a PathSource for
// anything else.
func SourceFor(arg string) Source {
	lower := strings.ToLower(arg)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return URLSource{URL: arg}
	}
	return PathSource{Path: arg}
}

// URLSource downloads CSV over HTTP(S).
type URLSource struct {
	URL    string
	Client *http.Client
}

// Name returns the last path segment of the URL, or its host when the path
// is empty.
func (s URLSource) Name() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return s.URL
	}
	if base := path.Base(u.Path); base != "/" && base != "." {
		return base
	}
	if u.Host != "" {
		return u.Host
	}
	return s.URL
}

func (s URLSource) Kind() string { return "url" }

func (s URLSource) Open(ctx context.Context) (io.ReadCloser, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, loadError(LoadUnreachable, s.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, loadError(LoadUnreachable, s.URL, fmt.Errorf("unsupported URL scheme %q", u.Scheme))
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, loadError(LoadUnreachable, s.URL, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, loadError(LoadUnreachable, s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, loadError(LoadUnreachable, s.URL, errors.New("HTTP "+resp.Status))
	}
	return resp.Body, nil
}
