// Package geo holds the authoritative geospatial feature collection. Geometry
// is carried as raw JSON and never interpreted; properties are kept as raw
// JSON so values the pipeline does not touch round-trip byte for byte.
package geo

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Source property names in the housing board dataset.
const (
	PropName                  = "NAME"
	PropCompletionEstimateRaw = "ESTMT_CNSTRN_CMPLTN"

	// DBF column names are capped at ten characters.
	propCompletionEstimateDBF = "ESTMT_CNST"
)

// FeatureCollection is a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON Feature.
type Feature struct {
	Type       string                     `json:"type"`
	Geometry   json.RawMessage            `json:"geometry"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// NewCollection wraps features in a FeatureCollection.
func NewCollection(features []Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}

// DecodeCollection parses a GeoJSON FeatureCollection.
func DecodeCollection(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geo: decode feature collection")
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, eris.Errorf("geo: expected FeatureCollection, got %q", fc.Type)
	}
	if fc.Features == nil {
		fc.Features = []Feature{}
	}
	fc.Type = "FeatureCollection"
	return &fc, nil
}

// Name returns the feature's NAME property.
func (f Feature) Name() string {
	return f.StringProp(PropName)
}

// CompletionEstimateRaw returns the dataset's own rough completion estimate.
func (f Feature) CompletionEstimateRaw() string {
	if _, ok := f.Properties[PropCompletionEstimateRaw]; ok {
		return f.StringProp(PropCompletionEstimateRaw)
	}
	return f.StringProp(propCompletionEstimateDBF)
}

// StringProp returns a property as text. Missing and null properties are
// "", strings are unquoted, and any other JSON value is returned verbatim.
func (f Feature) StringProp(key string) string {
	raw, ok := f.Properties[key]
	if !ok {
		return ""
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}

// CopyProperties returns a shallow copy of the property map, never nil.
func (f Feature) CopyProperties() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(f.Properties)+9)
	for k, v := range f.Properties {
		out[k] = v
	}
	return out
}
