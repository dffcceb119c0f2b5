// Package ingest loads the scraped listing and the authoritative feature
// collection from local files or URLs, dispatching on file extension.
package ingest

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bto-enrich/internal/fetcher"
	"github.com/sells-group/bto-enrich/internal/geo"
	"github.com/sells-group/bto-enrich/internal/listing"
)

// Loader reads inputs through a fetcher.Source.
type Loader struct {
	source  *fetcher.Source
	workDir string
}

// NewLoader creates a Loader. workDir receives downloads and extracted archives.
func NewLoader(source *fetcher.Source, workDir string) *Loader {
	return &Loader{source: source, workDir: workDir}
}

// Listing loads raw scraped rows. Supported formats: .json (array of
// objects), .csv and .xlsx (header row), .html/.htm (saved listing page).
func (l *Loader) Listing(ctx context.Context, location string) ([]listing.Row, error) {
	path, err := l.source.Local(ctx, location)
	if err != nil {
		return nil, err
	}

	var rows []listing.Row
	switch ext := fetcher.Ext(location); ext {
	case ".json":
		rows, err = readJSONRows(ctx, path)
	case ".csv":
		rows, err = readCSVRows(ctx, path)
	case ".xlsx":
		rows, err = readXLSXRows(path)
	case ".html", ".htm":
		rows, err = readHTMLRows(path)
	default:
		return nil, eris.Errorf("ingest: unsupported listing format %q (%s)", ext, location)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read listing %s", location)
	}

	zap.L().Debug("ingest: loaded listing rows",
		zap.String("location", location),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// Features loads the authoritative collection. Supported formats: .geojson
// and .json (FeatureCollection), .shp, and .zip holding a shapefile.
func (l *Loader) Features(ctx context.Context, location string) (*geo.FeatureCollection, error) {
	path, err := l.source.Local(ctx, location)
	if err != nil {
		return nil, err
	}

	var fc *geo.FeatureCollection
	switch ext := fetcher.Ext(location); ext {
	case ".geojson", ".json":
		fc, err = readGeoJSON(path)
	case ".shp":
		fc, err = geo.ReadShapefile(path)
	case ".zip":
		fc, err = l.readZippedShapefile(path)
	default:
		return nil, eris.Errorf("ingest: unsupported feature format %q (%s)", ext, location)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read features %s", location)
	}

	zap.L().Debug("ingest: loaded features",
		zap.String("location", location),
		zap.Int("features", len(fc.Features)),
	)
	return fc, nil
}

func readGeoJSON(path string) (*geo.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read file")
	}
	return geo.DecodeCollection(data)
}

func (l *Loader) readZippedShapefile(zipPath string) (*geo.FeatureCollection, error) {
	dir, err := os.MkdirTemp(l.workDir, "shapefile-*")
	if err != nil {
		return nil, eris.Wrap(err, "create extract dir")
	}
	if _, err := fetcher.ExtractZIP(zipPath, dir); err != nil {
		return nil, err
	}
	shpPath, err := fetcher.FindFileByExt(dir, ".shp")
	if err != nil {
		return nil, err
	}
	return geo.ReadShapefile(shpPath)
}
