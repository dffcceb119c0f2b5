// Package fetcher retrieves input sources from local paths or HTTP(S) URLs
// and parses the tabular formats listings arrive in (JSON, CSV, XLSX, ZIP).
package fetcher

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
)

// ErrSourceNotFound is returned when an input file is absent or a remote
// source answers 404. Wrapped errors carry the expected location.
var ErrSourceNotFound = eris.New("fetcher: source not found")

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
