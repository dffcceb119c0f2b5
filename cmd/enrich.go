package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sells-group/bto-enrich/internal/config"
	"github.com/sells-group/bto-enrich/internal/export"
	"github.com/sells-group/bto-enrich/internal/fetcher"
	"github.com/sells-group/bto-enrich/internal/ingest"
	"github.com/sells-group/bto-enrich/internal/reconcile"
	"github.com/sells-group/bto-enrich/internal/store"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich the project feature collection with listing data and MOP estimates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := applyEnrichFlags(cmd.Flags(), cfg); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		summary, err := recordRun(ctx, st, cfg, func(ctx context.Context) (reconcile.Summary, error) {
			return runEnrich(ctx, cfg)
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	addEnrichFlags(enrichCmd.Flags())
	rootCmd.AddCommand(enrichCmd)
}

func addEnrichFlags(f *pflag.FlagSet) {
	f.String("listing", "", "scraped listing file or URL (.json, .csv, .xlsx, .html)")
	f.String("features", "", "project feature collection file or URL (.geojson, .shp, .zip)")
	f.String("overrides", "", "optional match overrides YAML file or URL")
	f.String("output", "", "output GeoJSON path")
	f.Float64("threshold", 0, "match acceptance threshold in (0, 1]; score must exceed it")
	f.Int("workers", 0, "concurrent feature reconcilers")
}

// applyEnrichFlags copies explicitly set flags over the loaded config and
// checks that both inputs are known.
func applyEnrichFlags(f *pflag.FlagSet, c *config.Config) error {
	if f.Changed("listing") {
		c.Input.Listing, _ = f.GetString("listing")
	}
	if f.Changed("features") {
		c.Input.Features, _ = f.GetString("features")
	}
	if f.Changed("overrides") {
		c.Input.Overrides, _ = f.GetString("overrides")
	}
	if f.Changed("output") {
		c.Output.Path, _ = f.GetString("output")
	}
	if f.Changed("threshold") {
		c.Match.Threshold, _ = f.GetFloat64("threshold")
	}
	if f.Changed("workers") {
		c.Match.Workers, _ = f.GetInt("workers")
	}

	if c.Input.Listing == "" {
		return eris.New("enrich: listing input is required (--listing or BTO_INPUT_LISTING)")
	}
	if c.Input.Features == "" {
		return eris.New("enrich: features input is required (--features or BTO_INPUT_FEATURES)")
	}
	return c.Validate()
}

// recordRun wraps fn with run history bookkeeping. Store failures are
// logged and never change the outcome of fn.
func recordRun(ctx context.Context, st store.Store, c *config.Config, fn func(context.Context) (reconcile.Summary, error)) (reconcile.Summary, error) {
	if st == nil {
		return fn(ctx)
	}

	log := zap.L().With(zap.String("component", "runs"))
	run, err := st.CreateRun(ctx, store.RunInputs{
		Listing:   c.Input.Listing,
		Features:  c.Input.Features,
		Overrides: c.Input.Overrides,
		Output:    c.Output.Path,
	})
	if err != nil {
		log.Warn("record run start failed", zap.Error(err))
		return fn(ctx)
	}

	summary, runErr := fn(ctx)
	if runErr != nil {
		if err := st.FailRun(ctx, run.ID, runErr); err != nil {
			log.Warn("record run failure failed", zap.String("run_id", run.ID), zap.Error(err))
		}
		return summary, runErr
	}
	if err := st.CompleteRun(ctx, run.ID, summary); err != nil {
		log.Warn("record run completion failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	log.Info("run recorded", zap.String("run_id", run.ID))
	return summary, nil
}

// runEnrich loads every input, reconciles the features and writes the
// output. Any missing input aborts before output is written.
func runEnrich(ctx context.Context, c *config.Config) (reconcile.Summary, error) {
	start := time.Now()
	log := zap.L().With(zap.String("component", "enrich"))

	workDir, err := os.MkdirTemp("", "bto-enrich-*")
	if err != nil {
		return reconcile.Summary{}, eris.Wrap(err, "enrich: create work dir")
	}
	defer os.RemoveAll(workDir) //nolint:errcheck

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  c.Fetch.UserAgent,
		Timeout:    time.Duration(c.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: c.Fetch.MaxRetries,
		RatePerSec: c.Fetch.RatePerSec,
	})
	source := fetcher.NewSource(httpFetcher, workDir)
	loader := ingest.NewLoader(source, workDir)

	rows, err := loader.Listing(ctx, c.Input.Listing)
	if err != nil {
		return reconcile.Summary{}, eris.Wrap(err, "enrich: load listing")
	}
	fc, err := loader.Features(ctx, c.Input.Features)
	if err != nil {
		return reconcile.Summary{}, eris.Wrap(err, "enrich: load features")
	}

	var overrides reconcile.Overrides
	if c.Input.Overrides != "" {
		path, err := source.Local(ctx, c.Input.Overrides)
		if err != nil {
			return reconcile.Summary{}, eris.Wrap(err, "enrich: load overrides")
		}
		if overrides, err = reconcile.LoadOverrides(path); err != nil {
			return reconcile.Summary{}, err
		}
	}

	log.Info("inputs loaded",
		zap.Int("listing_rows", len(rows)),
		zap.Int("features", len(fc.Features)),
		zap.Int("overrides", len(overrides)),
	)

	out, summary, err := reconcile.Enrich(ctx, rows, fc, reconcile.Options{
		Threshold:       c.Match.Threshold,
		Workers:         c.Match.Workers,
		UnmatchedSample: c.Match.UnmatchedSample,
		Overrides:       overrides,
	})
	if err != nil {
		return reconcile.Summary{}, err
	}

	if err := export.WriteCollection(c.Output.Path, out); err != nil {
		return reconcile.Summary{}, err
	}

	log.Info("output written",
		zap.String("path", c.Output.Path),
		zap.Int("features", len(out.Features)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return summary, nil
}
