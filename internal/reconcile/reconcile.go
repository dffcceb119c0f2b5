// Package reconcile merges the scraped listing into the authoritative
// feature collection. Iteration is feature-first: every input feature
// yields exactly one output feature in the same position, and scraped
// projects that match nothing produce no output.
package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bto-enrich/internal/geo"
	"github.com/sells-group/bto-enrich/internal/listing"
	"github.com/sells-group/bto-enrich/internal/resolve"
	"github.com/sells-group/bto-enrich/internal/timeline"
)

// Enrichment property keys added to every output feature.
const (
	KeyProjectName      = "PROJECT_NAME"
	KeyScrapedName      = "BTO_NAME_SCRAPED"
	KeyTotalUnits       = "TOTAL_UNITS"
	KeyProjectType      = "PROJECT_TYPE"
	KeyBrochureLink     = "BROCHURE_LINK"
	KeyTown             = "TOWN"
	KeyEstCompletion    = "EST_COMPLETION"
	KeyMOPExpiryDate    = "MOP_EXPIRY_DATE"
	KeyMOPExpiryQuarter = "MOP_EXPIRY_Q"
)

// Defaults for Options.
const (
	DefaultThreshold       = 0.85
	DefaultWorkers         = 4
	DefaultUnmatchedSample = 10
)

var jsonNull = json.RawMessage("null")

// Options tunes a Reconciler.
type Options struct {
	Threshold       float64 // accept when score is strictly greater
	Workers         int
	UnmatchedSample int
	Overrides       Overrides
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.UnmatchedSample < 0 {
		o.UnmatchedSample = 0
	}
	return o
}

// Result is the outcome of reconciling one feature.
type Result struct {
	Feature   geo.Feature
	Matched   bool
	Override  bool
	Candidate string  // best normalized candidate, even when rejected
	Score     float64 // best score, 1.0 for overrides
	Dated     bool    // a completion date was resolved from either side
}

// Reconciler matches features against a read-only catalog. It holds no
// mutable state and is safe for concurrent use.
type Reconciler struct {
	catalog *listing.Catalog
	pool    *resolve.Pool
	opts    Options
}

// New creates a Reconciler over catalog.
func New(catalog *listing.Catalog, opts Options) *Reconciler {
	return &Reconciler{
		catalog: catalog,
		pool:    resolve.NewPool(catalog.Names()),
		opts:    opts.withDefaults(),
	}
}

// Feature reconciles one feature. Geometry and existing properties pass
// through; the nine enrichment keys are always set.
func (r *Reconciler) Feature(f geo.Feature) Result {
	res := Result{}
	props := f.CopyProperties()

	entry, ok := r.match(f.Name(), &res)
	if ok {
		res.Matched = true
		p := entry.Project
		props[KeyProjectName] = marshal(p.Name)
		props[KeyScrapedName] = marshal(p.Name)
		props[KeyTotalUnits] = marshal(p.Units)
		props[KeyProjectType] = marshal(listing.ClassifyType(p.TypeRaw))
		props[KeyBrochureLink] = marshal(p.BrochureLink)
		props[KeyTown] = marshal(p.Town)
		res.Dated = setMilestone(props, entry.Completion, true)
	} else {
		name, has := f.Properties[geo.PropName]
		if !has {
			name = jsonNull
		}
		props[KeyProjectName] = name
		props[KeyScrapedName] = jsonNull
		props[KeyTotalUnits] = jsonNull
		props[KeyProjectType] = marshal(listing.TypeUnknown)
		props[KeyBrochureLink] = jsonNull
		props[KeyTown] = jsonNull

		completion, dated := timeline.Parse(f.CompletionEstimateRaw())
		res.Dated = setMilestone(props, completion, dated)
	}

	res.Feature = geo.Feature{
		Type:       "Feature",
		Geometry:   f.Geometry,
		Properties: props,
	}
	if res.Feature.Geometry == nil {
		res.Feature.Geometry = jsonNull
	}
	return res
}

// match finds the catalog entry for a feature name, recording the best
// candidate and score on res.
func (r *Reconciler) match(name string, res *Result) (listing.Entry, bool) {
	query := resolve.NormalizeName(name)
	if query == "" {
		return listing.Entry{}, false
	}

	if target, ok := r.opts.Overrides[query]; ok {
		if entry, found := r.catalog.Lookup(target); found {
			res.Override = true
			res.Candidate = target
			res.Score = 1.0
			return entry, true
		}
		zap.L().Debug("reconcile: override target not in pool",
			zap.String("feature", name),
			zap.String("project", target),
		)
	}

	best := r.pool.Best(query)
	if !best.Found {
		return listing.Entry{}, false
	}
	res.Candidate = best.Candidate
	res.Score = best.Score
	if best.Score <= r.opts.Threshold {
		return listing.Entry{}, false
	}
	return r.catalog.Lookup(best.Candidate)
}

// setMilestone writes the completion and milestone keys, nulling the dates
// and using the unknown quarter label when ok is false.
func setMilestone(props map[string]json.RawMessage, completion time.Time, ok bool) bool {
	if !ok {
		props[KeyEstCompletion] = jsonNull
		props[KeyMOPExpiryDate] = jsonNull
		props[KeyMOPExpiryQuarter] = marshal(timeline.UnknownQuarter)
		return false
	}
	m := timeline.ComputeMilestone(completion)
	props[KeyEstCompletion] = marshal(timeline.Format(m.Completion))
	props[KeyMOPExpiryDate] = marshal(timeline.Format(m.Expiry))
	props[KeyMOPExpiryQuarter] = marshal(m.Quarter)
	return true
}

// Run reconciles every feature on a bounded worker group. The output keeps
// input order regardless of scheduling.
func (r *Reconciler) Run(ctx context.Context, fc *geo.FeatureCollection) ([]Result, error) {
	results := make([]Result, len(fc.Features))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, f := range fc.Features {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.Feature(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "reconcile: run")
	}
	return results, nil
}

// marshal encodes scalar values; they cannot fail to encode.
func marshal(v any) json.RawMessage {
	if v == nil {
		return jsonNull
	}
	b, err := json.Marshal(v)
	if err != nil {
		return jsonNull
	}
	return b
}
