package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/bto-enrich/internal/geo"
	"github.com/sells-group/bto-enrich/internal/listing"
)

// Summary reports what one enrichment run did. It is diagnostic only.
type Summary struct {
	ScrapedRows       int      `json:"scraped_rows"`
	DiscardedRows     int      `json:"discarded_rows"`
	ResolvedProjects  int      `json:"resolved_projects"`
	UndatedProjects   int      `json:"undated_projects"`
	Features          int      `json:"features"`
	Matched           int      `json:"matched"`
	OverrideMatches   int      `json:"override_matches"`
	Unmatched         int      `json:"unmatched"`
	FallbackDated     int      `json:"fallback_dated"`
	Undated           int      `json:"undated"`
	UnmatchedProjects int      `json:"unmatched_projects"`
	UnmatchedSample   []string `json:"unmatched_sample"`
}

// Enrich runs the full pipeline: extract projects from raw rows, build the
// resolved catalog, reconcile every feature and summarize.
func Enrich(ctx context.Context, rows []listing.Row, fc *geo.FeatureCollection, opts Options) (*geo.FeatureCollection, Summary, error) {
	log := zap.L().With(zap.String("component", "reconcile"))

	projects, discarded := listing.Extract(rows)
	catalog := listing.NewCatalog(projects)

	r := New(catalog, opts)
	results, err := r.Run(ctx, fc)
	if err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{
		ScrapedRows:      len(rows),
		DiscardedRows:    discarded,
		ResolvedProjects: catalog.Len(),
		UndatedProjects:  catalog.Unresolved(),
	}
	summary.addResults(results, catalog, r.opts.UnmatchedSample)

	for _, res := range results {
		if !res.Matched {
			log.Debug("unmatched feature",
				zap.String("name", res.Feature.StringProp(KeyProjectName)),
				zap.String("best_candidate", res.Candidate),
				zap.Float64("score", res.Score),
			)
		}
	}
	log.Info("enrichment complete",
		zap.Int("scraped_rows", summary.ScrapedRows),
		zap.Int("resolved_projects", summary.ResolvedProjects),
		zap.Int("features", summary.Features),
		zap.Int("matched", summary.Matched),
		zap.Int("unmatched", summary.Unmatched),
		zap.Int("fallback_dated", summary.FallbackDated),
		zap.Int("undated", summary.Undated),
		zap.Strings("unmatched_sample", summary.UnmatchedSample),
	)

	out := make([]geo.Feature, len(results))
	for i, res := range results {
		out[i] = res.Feature
	}
	return geo.NewCollection(out), summary, nil
}

// addResults tallies per-feature outcomes in input order, so the unmatched
// sample is deterministic.
func (s *Summary) addResults(results []Result, catalog *listing.Catalog, sampleSize int) {
	s.Features = len(results)
	s.UnmatchedSample = []string{}

	used := make(map[string]bool, len(results))
	for _, res := range results {
		switch {
		case res.Matched:
			s.Matched++
			used[res.Candidate] = true
			if res.Override {
				s.OverrideMatches++
			}
		default:
			s.Unmatched++
			if res.Dated {
				s.FallbackDated++
			}
			if len(s.UnmatchedSample) < sampleSize {
				s.UnmatchedSample = append(s.UnmatchedSample, res.Feature.StringProp(KeyProjectName))
			}
		}
		if !res.Dated {
			s.Undated++
		}
	}

	for _, name := range catalog.Names() {
		if !used[name] {
			s.UnmatchedProjects++
		}
	}
}
