package listing

import (
	"strings"
	"unicode"
)

// rawCaptureKey marks a row the scraper could not split into columns.
const rawCaptureKey = "_raw"

// Project is one named row of the scraped listing.
type Project struct {
	Name          string `json:"name"`
	LaunchRaw     string `json:"launch_date_raw"`
	CompletionRaw string `json:"completion_date_raw"`
	BrochureLink  string `json:"brochure_link"`
	Units         any    `json:"unit_count"`
	TypeRaw       string `json:"project_type_raw"`
	Town          string `json:"town"`
}

// columnMatchers find the optional columns. Headers are compared after
// lower-casing and collapsing whitespace, so "Launch date" and
// "Estimated\ncompletion\ndate (note)" match.
var columnMatchers = struct {
	launch, completion, brochure, units, projectType, town func(string) bool
}{
	launch:      equals("launch date"),
	completion:  func(h string) bool { return strings.HasPrefix(h, "estimated completion date") },
	brochure:    equals("brochure link"),
	units:       equals("units"),
	projectType: equals("type"),
	town:        equals("town"),
}

func equals(want string) func(string) bool {
	return func(h string) bool { return h == want }
}

// canonicalHeader lower-cases h and collapses every whitespace run to a
// single ASCII space.
func canonicalHeader(h string) string {
	return strings.ToLower(strings.Join(strings.FieldsFunc(h, unicode.IsSpace), " "))
}

// IsNameColumn reports whether a raw header names the project. The check is
// case-sensitive on "BTO".
func IsNameColumn(header string) bool {
	return strings.Contains(header, "BTO") && strings.Contains(header, "name")
}

// Extract turns raw rows into projects. Rows that are raw captures, have no
// name column, or have an empty name are skipped and counted in discarded.
func Extract(rows []Row) (projects []Project, discarded int) {
	for _, row := range rows {
		p, ok := extractOne(row)
		if !ok {
			discarded++
			continue
		}
		projects = append(projects, p)
	}
	return projects, discarded
}

func extractOne(row Row) (Project, bool) {
	if len(row) == 1 && row[0].Key == rawCaptureKey {
		return Project{}, false
	}

	var p Project
	var haveName bool
	for _, f := range row {
		if IsNameColumn(f.Key) {
			p.Name = Text(f.Value)
			haveName = true
			break
		}
	}
	if !haveName || p.Name == "" {
		return Project{}, false
	}

	if v, ok := firstColumn(row, columnMatchers.launch); ok {
		p.LaunchRaw = Text(v)
	}
	if v, ok := firstColumn(row, columnMatchers.completion); ok {
		p.CompletionRaw = Text(v)
	}
	if v, ok := firstColumn(row, columnMatchers.brochure); ok {
		p.BrochureLink = Text(v)
	}
	p.Units = ""
	if v, ok := firstColumn(row, columnMatchers.units); ok {
		p.Units = v
	}
	if v, ok := firstColumn(row, columnMatchers.projectType); ok {
		p.TypeRaw = Text(v)
	}
	if v, ok := firstColumn(row, columnMatchers.town); ok {
		p.Town = Text(v)
	}

	return p, true
}

func firstColumn(row Row, match func(string) bool) (any, bool) {
	for _, f := range row {
		if match(canonicalHeader(f.Key)) {
			return f.Value, true
		}
	}
	return nil, false
}
