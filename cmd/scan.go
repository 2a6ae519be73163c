package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/prospect"
)

var scanHeuristic bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a prospecting scan",
}

var scanPlacesCmd = &cobra.Command{
	Use:   "places",
	Short: "Scan Google Maps zones, score businesses and store the leads worth contacting",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode := config.ModePlaces
		if scanHeuristic {
			mode = config.ModePlacesHeuristic
		}
		env, err := initAgent(ctx, mode, scanHeuristic)
		if err != nil {
			return err
		}
		defer env.Close()

		return runScan(ctx, cmd, "places", env.Agent.PlacesRun)
	},
}

var scanFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Scan the Codeur project feed and answer the matching projects",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAgent(ctx, config.ModeFeed, false)
		if err != nil {
			return err
		}
		defer env.Close()

		return runScan(ctx, cmd, "feed", env.Agent.FeedRun)
	},
}

type scanFunc func(ctx context.Context, out prospect.Emitter) (prospect.Tally, error)

// runScan logs the progress events of a scan and prints its tally, even
// when the scan was interrupted.
func runScan(ctx context.Context, cmd *cobra.Command, name string, run scanFunc) error {
	log := zap.L().With(zap.String("scan", name))
	tally, err := run(ctx, prospect.LogEmitter(log))
	if werr := writeOutput(cmd.OutOrStdout(), tally, "json"); werr != nil {
		log.Warn("print tally", zap.Error(werr))
	}
	return err
}

func init() {
	scanPlacesCmd.Flags().BoolVar(&scanHeuristic, "heuristic", false, "score with the deterministic heuristic instead of the model")
	scanCmd.AddCommand(scanPlacesCmd, scanFeedCmd)
	rootCmd.AddCommand(scanCmd)
}
