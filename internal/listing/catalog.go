package listing

import (
	"time"

	"github.com/sells-group/bto-enrich/internal/resolve"
	"github.com/sells-group/bto-enrich/internal/timeline"
)

// Entry is a project with a resolved completion date.
type Entry struct {
	Project    Project
	Completion time.Time
}

// Catalog is the read-only matching pool: projects with a resolvable
// completion date, keyed by normalized name. It is built once and is safe
// for concurrent readers.
type Catalog struct {
	order      []string
	entries    map[string]Entry
	unresolved int
}

// NewCatalog resolves each project's completion date and keeps the ones that
// resolve. When two projects normalize to the same name the later one wins,
// but the name keeps its first position in Names.
func NewCatalog(projects []Project) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(projects))}
	for _, p := range projects {
		completion, ok := timeline.ResolveCompletion(p.CompletionRaw, p.LaunchRaw)
		if !ok {
			c.unresolved++
			continue
		}

		key := resolve.NormalizeName(p.Name)
		if _, dup := c.entries[key]; !dup {
			c.order = append(c.order, key)
		}
		c.entries[key] = Entry{Project: p, Completion: completion}
	}
	return c
}

// Names returns the normalized names in first-seen order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Lookup returns the entry stored under a normalized name.
func (c *Catalog) Lookup(normName string) (Entry, bool) {
	e, ok := c.entries[normName]
	return e, ok
}

// Len returns the number of distinct normalized names.
func (c *Catalog) Len() int { return len(c.order) }

// Unresolved returns how many projects were dropped for lack of a
// completion date.
func (c *Catalog) Unresolved() int { return c.unresolved }
