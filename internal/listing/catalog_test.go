package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bto-enrich/internal/timeline"
)

func TestNewCatalog_DropsUnresolved(t *testing.T) {
	c := NewCatalog([]Project{
		{Name: "Alkaff Vista (Bidadari)", CompletionRaw: "15 Jun 2023"},
		{Name: "Cancelled Project", CompletionRaw: "Cancelled", LaunchRaw: "Feb 2020"},
		{Name: "Tengah Garden Walk", CompletionRaw: "About 48 months", LaunchRaw: "Nov 2021"},
	})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.Unresolved())
	assert.Equal(t, []string{"alkaff vista bidadari", "tengah garden walk"}, c.Names())

	e, ok := c.Lookup("alkaff vista bidadari")
	require.True(t, ok)
	assert.Equal(t, timeline.Date(2023, time.June, 15), e.Completion)
	assert.Equal(t, "Alkaff Vista (Bidadari)", e.Project.Name)

	e, ok = c.Lookup("tengah garden walk")
	require.True(t, ok)
	assert.Equal(t, timeline.Date(2021, time.November, 1).AddDate(0, 0, 1461), e.Completion)
}

func TestNewCatalog_DuplicateNamesKeepFirstPositionLastValue(t *testing.T) {
	c := NewCatalog([]Project{
		{Name: "Ubi Grove", CompletionRaw: "1Q 2025", Units: "100"},
		{Name: "Kim Keat Beacon", CompletionRaw: "2Q 2028"},
		{Name: "UBI GROVE!", CompletionRaw: "3Q 2026", Units: "200"},
	})

	assert.Equal(t, []string{"ubi grove", "kim keat beacon"}, c.Names())
	e, ok := c.Lookup("ubi grove")
	require.True(t, ok)
	assert.Equal(t, "200", e.Project.Units)
	assert.Equal(t, timeline.Date(2026, time.September, 30), e.Completion)
}

func TestNewCatalog_Empty(t *testing.T) {
	c := NewCatalog(nil)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Names())
	_, ok := c.Lookup("anything")
	assert.False(t, ok)
}

func TestCatalog_NamesIsACopy(t *testing.T) {
	c := NewCatalog([]Project{{Name: "Ubi Grove", CompletionRaw: "1Q 2025"}})
	names := c.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"ubi grove"}, c.Names())
}
