package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/placement-cell-api/internal/app"
	"github.com/noah-isme/placement-cell-api/internal/models"
	"github.com/noah-isme/placement-cell-api/pkg/config"
	appErrors "github.com/noah-isme/placement-cell-api/pkg/errors"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				summary, _, err := a.Dashboard.Summary(ctx)
				return summary, err
			})
		},
	}
}

func newRecruitersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recruiters",
		Short: "Print drives and students per placement representative",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				recruiters, _, err := a.Dashboard.Recruiters(ctx)
				return recruiters, err
			})
		},
	}
}

func newCompaniesCmd(opts *rootOptions) *cobra.Command {
	var ongoing bool
	cmd := &cobra.Command{
		Use:   "companies [company-id]",
		Short: "Print the companies overview, the ongoing companies or one company's stats",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				switch {
				case len(args) == 1:
					return a.Companies.Stats(ctx, args[0])
				case ongoing:
					return a.Companies.Ongoing(ctx)
				default:
					overview, _, err := a.Companies.Overview(ctx)
					return overview, err
				}
			})
		},
	}
	cmd.Flags().BoolVar(&ongoing, "ongoing", false, "only companies still in progress")
	return cmd
}

func newGlobalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "global",
		Short: "Print the global funnel statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				stats, _, err := a.Statistics.Global(ctx)
				return stats, err
			})
		},
	}
}

func newFunnelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "funnel [company-id]",
		Short: "Print every company funnel, or one when an id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				if len(args) == 1 {
					return a.Statistics.CompanyFunnel(ctx, args[0])
				}
				funnels, _, err := a.Statistics.Funnels(ctx)
				return funnels, err
			})
		},
	}
}

func newStudentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "student <name or reg no>",
		Short: "Trace one student through every company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				return a.Statistics.StudentHistory(ctx, strings.Join(args, " "))
			})
		},
	}
}

func newStudentsCmd(opts *rootOptions) *cobra.Command {
	var performance bool
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Analyse every roster student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				if performance {
					report, _, err := a.Statistics.Performance(ctx)
					return report, err
				}
				analysis, _, err := a.Statistics.AllStudents(ctx)
				return analysis, err
			})
		},
	}
	cmd.Flags().BoolVar(&performance, "performance", false, "group applications per student instead")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name or reg no>",
		Short: "Fuzzy-match a name against the roster",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				student, ok, err := a.Roster.Resolve(ctx, query)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, appErrors.Clone(appErrors.ErrStudentNotFound, fmt.Sprintf("student %q not found", query))
				}
				return student, nil
			})
		},
	}
}

func newMatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "match",
		Short: "Reconcile the overall analysis sheet against the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, nil, func(ctx context.Context, a *app.App) (interface{}, error) {
				return a.Statistics.NameMatchReport(ctx)
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		kind, format string
		storageDir   string
	)
	enable := func(cfg *config.Config) {
		cfg.Exports.Enabled = true
		if storageDir != "" {
			cfg.Exports.StorageDir = storageDir
		}
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render an export file and print its signed download link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, enable, func(ctx context.Context, a *app.App) (interface{}, error) {
				return a.Exports.Generate(ctx, models.ReportRequest{
					Type:   models.ReportType(kind),
					Format: models.ReportFormat(format),
				})
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", string(models.ReportTypeCompanies), "companies, students or funnel")
	cmd.Flags().StringVar(&format, "format", string(models.ReportFormatCSV), "csv or pdf")
	cmd.PersistentFlags().StringVar(&storageDir, "storage-dir", "", "export directory (default EXPORTS_STORAGE_DIR)")

	var olderThan time.Duration
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete export files older than the given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(cmd, enable, func(_ context.Context, a *app.App) (interface{}, error) {
				removed, err := a.Exports.Cleanup(olderThan)
				if removed == nil {
					removed = []string{}
				}
				return map[string]interface{}{"removed": removed}, err
			})
		},
	}
	cleanup.Flags().DurationVar(&olderThan, "older-than", 0, "age threshold (default EXPORTS_SIGNED_URL_TTL)")
	cmd.AddCommand(cleanup)
	return cmd
}
