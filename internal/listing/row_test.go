package listing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_UnmarshalKeepsOrder(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"Type":"Standard","BTO name":"Tengah Garden Walk","Units":1120,"Brochure Link":null}`), &row)
	require.NoError(t, err)

	require.Len(t, row, 4)
	assert.Equal(t, "Type", row[0].Key)
	assert.Equal(t, "BTO name", row[1].Key)
	assert.Equal(t, "Units", row[2].Key)
	assert.Equal(t, json.Number("1120"), row[2].Value)
	assert.Nil(t, row[3].Value)
}

func TestRow_UnmarshalDuplicateKey(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1","b":"2","a":"3"}`), &row))

	require.Len(t, row, 2)
	assert.Equal(t, "a", row[0].Key)
	assert.Equal(t, "3", row[0].Value)
}

func TestRow_UnmarshalRejectsArray(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`["a","b"]`), &row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected object")
}

func TestRow_UnmarshalNull(t *testing.T) {
	var rows []Row
	require.NoError(t, json.Unmarshal([]byte(`[null, {"a":"1"}]`), &rows))
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0])
	assert.Len(t, rows[1], 1)
}

func TestRow_MarshalRoundTripOrder(t *testing.T) {
	row := Row{{Key: "z", Value: "1"}, {Key: "a", Value: json.Number("2")}}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":"1","a":2}`, string(data))
	assert.Equal(t, `{"z":"1","a":2}`, string(data))
}

func TestRowFromPairs(t *testing.T) {
	row := RowFromPairs([]string{"BTO name", "Units"}, []string{"Kim Keat Beacon", "400", "extra"})
	require.Len(t, row, 2)
	v, ok := row.Get("Units")
	require.True(t, ok)
	assert.Equal(t, "400", v)

	_, ok = row.Get("Missing")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "abc", Text("abc"))
	assert.Equal(t, "12", Text(json.Number("12")))
	assert.Equal(t, "2.5", Text(2.5))
	assert.Equal(t, "true", Text(true))
	assert.Equal(t, "7", Text(7))
}
