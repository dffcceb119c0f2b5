package geo

import (
	"encoding/json"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// ReadShapefile converts an ESRI shapefile into a FeatureCollection. DBF
// attributes become string properties (empty values become null). Shapes
// that cannot be converted keep their feature with a null geometry so the
// record count always matches the file.
func ReadShapefile(shpPath string) (*FeatureCollection, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	features := []Feature{}
	var nullGeoms int
	for reader.Next() {
		_, shape := reader.Shape()

		props := make(map[string]json.RawMessage, len(names))
		for i, name := range names {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
			if val == "" {
				props[name] = json.RawMessage("null")
				continue
			}
			b, err := json.Marshal(val)
			if err != nil {
				return nil, eris.Wrapf(err, "geo: encode attribute %s", name)
			}
			props[name] = b
		}

		geometry, err := ShapeToGeoJSON(shape)
		if err != nil {
			return nil, err
		}
		if geometry == nil {
			nullGeoms++
			geometry = json.RawMessage("null")
		}

		features = append(features, Feature{Type: "Feature", Geometry: geometry, Properties: props})
	}

	if nullGeoms > 0 {
		zap.L().Debug("geo: shapefile records without usable geometry",
			zap.String("path", shpPath),
			zap.Int("count", nullGeoms),
		)
	}

	return NewCollection(features), nil
}

// ShapeToGeoJSON encodes a shapefile shape as a GeoJSON geometry object.
// Returns nil, nil for nil or unsupported shapes.
func ShapeToGeoJSON(shape shp.Shape) (json.RawMessage, error) {
	var g geom.T

	switch s := shape.(type) {
	case *shp.Point:
		g = geom.NewPointFlat(geom.XY, []float64{s.X, s.Y})
	case *shp.MultiPoint:
		if len(s.Points) > 0 {
			g = geom.NewMultiPointFlat(geom.XY, pointsFlat(s.Points))
		}
	case *shp.PolyLine:
		g = polyLineToGeom(s)
	case *shp.Polygon:
		g = polygonToGeom(s)
	}

	if g == nil {
		return nil, nil
	}

	data, err := geojson.Marshal(g)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode geometry")
	}
	return data, nil
}

// partRanges splits a multi-part point array into [start, end) ranges.
func partRanges(numParts int32, parts []int32, numPoints int) [][2]int32 {
	ranges := make([][2]int32, 0, numParts)
	for i := int32(0); i < numParts; i++ {
		start := parts[i]
		end := int32(numPoints)
		if i+1 < numParts {
			end = parts[i+1]
		}
		if start < 0 || end > int32(numPoints) || start >= end {
			continue
		}
		ranges = append(ranges, [2]int32{start, end})
	}
	return ranges
}

// polyLineToGeom returns a LineString for single-part lines and a
// MultiLineString otherwise.
func polyLineToGeom(pl *shp.PolyLine) geom.T {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	ranges := partRanges(pl.NumParts, pl.Parts, len(pl.Points))
	if len(ranges) == 1 {
		r := ranges[0]
		return geom.NewLineStringFlat(geom.XY, pointsFlat(pl.Points[r[0]:r[1]]))
	}

	mls := geom.NewMultiLineString(geom.XY)
	for _, r := range ranges {
		ls := geom.NewLineStringFlat(geom.XY, pointsFlat(pl.Points[r[0]:r[1]]))
		if err := mls.Push(ls); err != nil {
			zap.L().Debug("geo: skipping malformed linestring part", zap.Error(err))
		}
	}
	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}

// polygonToGeom groups rings by winding order: clockwise rings start a new
// polygon and counter-clockwise rings are holes in the preceding one. A hole
// with no outer ring before it is treated as an outer ring. One polygon yields
// a Polygon, several a MultiPolygon.
func polygonToGeom(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var polys []*geom.Polygon
	for _, r := range partRanges(p.NumParts, p.Parts, len(p.Points)) {
		pts := p.Points[r[0]:r[1]]
		ring := geom.NewLinearRingFlat(geom.XY, pointsFlat(pts))
		if len(polys) == 0 || signedArea(pts) <= 0 {
			polys = append(polys, geom.NewPolygon(geom.XY))
		}
		if err := polys[len(polys)-1].Push(ring); err != nil {
			zap.L().Debug("geo: skipping malformed polygon ring", zap.Error(err))
		}
	}

	switch len(polys) {
	case 0:
		return nil
	case 1:
		return polys[0]
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for _, poly := range polys {
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("geo: skipping malformed polygon part", zap.Error(err))
		}
	}
	return mp
}

// signedArea is the shoelace area of a ring; negative for clockwise rings.
func signedArea(pts []shp.Point) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

func pointsFlat(pts []shp.Point) []float64 {
	flat := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}
