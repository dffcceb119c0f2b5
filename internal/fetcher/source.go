package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Source materializes input locations as local files. Local paths are
// checked for existence; http(s) URLs are downloaded into a work directory.
type Source struct {
	fetcher Fetcher
	workDir string
}

// NewSource creates a Source that downloads remote inputs into workDir.
func NewSource(f Fetcher, workDir string) *Source {
	return &Source{fetcher: f, workDir: workDir}
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Ext returns the lower-cased file extension of a local path or URL path.
func Ext(location string) string {
	if IsRemote(location) {
		if u, err := url.Parse(location); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(location))
}

// Local returns a local file path holding the content at location. Missing
// files and 404 responses yield ErrSourceNotFound.
func (s *Source) Local(ctx context.Context, location string) (string, error) {
	if !IsRemote(location) {
		if _, err := os.Stat(location); err != nil {
			if os.IsNotExist(err) {
				return "", eris.Wrapf(ErrSourceNotFound, "expected at %s", location)
			}
			return "", eris.Wrapf(err, "fetcher: stat %s", location)
		}
		return location, nil
	}

	if s.fetcher == nil {
		return "", eris.Errorf("fetcher: no HTTP fetcher configured for %s", location)
	}

	dir, err := os.MkdirTemp(s.workDir, "source-*")
	if err != nil {
		return "", eris.Wrap(err, "fetcher: create download dir")
	}

	dest := filepath.Join(dir, remoteBase(location))
	n, err := s.fetcher.DownloadToFile(ctx, location, dest)
	if err != nil {
		return "", err
	}

	zap.L().Debug("fetcher: downloaded source",
		zap.String("url", location),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}

// remoteBase picks a file name for a downloaded URL, keeping its extension.
func remoteBase(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return "download"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "download"
	}
	return base
}
