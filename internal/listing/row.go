// Package listing models the scraped housing project listing: raw rows as
// captured from the source table, the projects extracted from them, and the
// read-only catalog of projects used as the matching pool.
package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
)

// Field is one column of a raw row.
type Field struct {
	Key   string
	Value any
}

// Row is one scraped record. Column order is preserved from the source so
// that header heuristics ("first column whose name ...") are deterministic.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// RowFromPairs builds a row from parallel header and value slices. Values
// beyond the header are dropped.
func RowFromPairs(headers, values []string) Row {
	row := make(Row, 0, len(values))
	for i, v := range values {
		if i >= len(headers) {
			break
		}
		row = row.Set(headers[i], v)
	}
	return row
}

// Set assigns key, replacing an existing column in place.
func (r Row) Set(key string, value any) Row {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Key: key, Value: value})
}

// UnmarshalJSON decodes a flat JSON object, keeping key order. Nested
// values are kept as decoded by encoding/json; duplicate keys keep the
// first position and the last value. null decodes to an empty row.
func (r *Row) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "listing: read row")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.Errorf("listing: expected object, got %v", tok)
	}

	row := Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "listing: read key")
		}
		key, ok := tok.(string)
		if !ok {
			return eris.Errorf("listing: expected key, got %v", tok)
		}

		var val any
		if err := dec.Decode(&val); err != nil {
			return eris.Wrapf(err, "listing: decode value for %q", key)
		}
		row = row.Set(key, val)
	}

	if _, err := dec.Token(); err != nil {
		return eris.Wrap(err, "listing: read closing brace")
	}
	*r = row
	return nil
}

// MarshalJSON encodes the row as an object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Text coerces a raw cell value to text. nil becomes "".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
