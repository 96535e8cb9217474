package main

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/placement-cell-api/internal/app"
	"github.com/noah-isme/placement-cell-api/pkg/config"
	"github.com/noah-isme/placement-cell-api/pkg/logger"
)

type rootOptions struct {
	dataDir      string
	rosterFile   string
	ledgerFile   string
	analysisDir  string
	analysisFile string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "placementctl",
		Short:         "Placement cell reporting from the command line",
		Long:          "Runs the dashboard, funnel and student analyses over the roster, ledger and round matrix files and prints JSON.",
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding the default roster, ledger and analysis files")
	flags.StringVar(&opts.rosterFile, "roster", "", "roster CSV path")
	flags.StringVar(&opts.ledgerFile, "ledger", "", "placement ledger CSV path")
	flags.StringVar(&opts.analysisDir, "analysis-dir", "", "directory of per-company round matrices")
	flags.StringVar(&opts.analysisFile, "analysis-file", "", "overall analysis sheet CSV path")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newDashboardCmd(opts),
		newRecruitersCmd(opts),
		newCompaniesCmd(opts),
		newGlobalCmd(opts),
		newFunnelsCmd(opts),
		newStudentCmd(opts),
		newStudentsCmd(opts),
		newResolveCmd(opts),
		newMatchCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// loadConfig reads the environment configuration and applies flag overrides.
// The statistics cache is always off; every invocation computes fresh.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
		cfg.Data.RosterFile = filepath.Join(o.dataDir, filepath.Base(cfg.Data.RosterFile))
		cfg.Data.LedgerFile = filepath.Join(o.dataDir, filepath.Base(cfg.Data.LedgerFile))
		cfg.Data.AnalysisDir = filepath.Join(o.dataDir, filepath.Base(cfg.Data.AnalysisDir))
		if cfg.Data.AnalysisFile != "" {
			cfg.Data.AnalysisFile = filepath.Join(o.dataDir, filepath.Base(cfg.Data.AnalysisFile))
		}
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Data.RosterFile, o.rosterFile)
	override(&cfg.Data.LedgerFile, o.ledgerFile)
	override(&cfg.Data.AnalysisDir, o.analysisDir)
	override(&cfg.Data.AnalysisFile, o.analysisFile)
	cfg.Stats.CacheEnabled = false
	return cfg, nil
}

// withApp builds the services for one command run.
func (o *rootOptions) withApp(cmd *cobra.Command, mutate func(*config.Config), fn func(context.Context, *app.App) (interface{}, error)) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if mutate != nil {
		mutate(cfg)
	}

	logr := zap.NewNop()
	if o.verbose {
		if logr, err = logger.New(cfg); err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	out, err := fn(ctx, a)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
