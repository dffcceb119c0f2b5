package reconcile

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bto-enrich/internal/resolve"
)

// Overrides pins feature names to scraped project names, both normalized.
type Overrides map[string]string

// OverrideFile is the on-disk layout of an overrides file.
type OverrideFile struct {
	Overrides []OverrideEntry `yaml:"overrides"`
}

// OverrideEntry pins one feature to one scraped project.
type OverrideEntry struct {
	Feature string `yaml:"feature"`
	Project string `yaml:"project"`
}

// ParseOverrides decodes an overrides YAML document. Entries with an empty
// side are rejected; a repeated feature keeps its last mapping.
func ParseOverrides(data []byte) (Overrides, error) {
	var file OverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "reconcile: parse overrides")
	}

	out := make(Overrides, len(file.Overrides))
	for i, e := range file.Overrides {
		feature := resolve.NormalizeName(e.Feature)
		project := resolve.NormalizeName(e.Project)
		if feature == "" || project == "" {
			return nil, eris.Errorf("reconcile: override %d needs both feature and project", i)
		}
		out[feature] = project
	}
	return out, nil
}

// LoadOverrides reads an overrides file from disk.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reconcile: read overrides %s", path)
	}
	return ParseOverrides(data)
}
