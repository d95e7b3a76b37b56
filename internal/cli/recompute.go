package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/config"
)

// NewRecomputeCmd rebuilds every article and user aggregate from stored responses.
func NewRecomputeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute all article credibility scores and user statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecompute(cmd.Context(), *configPath, cmd)
		},
	}
}

func runRecompute(ctx context.Context, configPath string, cmd *cobra.Command) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	summary, err := app.NewMaintenanceService(d.store, d.board, cfg.Recompute.Workers).RecomputeAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "recomputed %d articles and %d users\n", summary.Articles, summary.Users)
	return nil
}
