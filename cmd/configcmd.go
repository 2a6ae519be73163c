package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/store"
)

var (
	configFormat string
	configSet    model.AgentConfig
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update the stored scan configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the scan configuration in effect",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate(config.ModeStore); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		current, err := currentAgentConfig(ctx, st)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), current, configFormat)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the stored scan configuration; unset flags keep their value",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate(config.ModeStore); err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		current, err := currentAgentConfig(ctx, st)
		if err != nil {
			return err
		}
		next := applyConfigFlags(cmd, current, configSet)
		if err := st.SaveAgentConfig(ctx, next); err != nil {
			return err
		}

		zap.L().Info("agent config saved",
			zap.Strings("zones", next.Zones),
			zap.Int("radius", next.Radius),
		)
		return writeOutput(cmd.OutOrStdout(), next, configFormat)
	},
}

// currentAgentConfig returns the stored configuration, or the static one
// when none is stored yet.
func currentAgentConfig(ctx context.Context, st store.Store) (model.AgentConfig, error) {
	stored, err := st.GetAgentConfig(ctx)
	if err != nil {
		return model.AgentConfig{}, err
	}
	if stored != nil {
		return *stored, nil
	}
	return storedView(agentConfig(cfg, false)), nil
}

// applyConfigFlags overlays the flags the user set on base.
func applyConfigFlags(cmd *cobra.Command, base, set model.AgentConfig) model.AgentConfig {
	f := cmd.Flags()
	if f.Changed("zones") {
		base.Zones = set.Zones
	}
	if f.Changed("radius") {
		base.Radius = set.Radius
	}
	if f.Changed("max-results") {
		base.MaxResultsPerZone = set.MaxResultsPerZone
	}
	if f.Changed("min-reviews") {
		base.MinReviews = set.MinReviews
	}
	if f.Changed("min-rating") {
		base.MinRating = set.MinRating
	}
	if f.Changed("sectors") {
		base.PrioritySectors = set.PrioritySectors
	}
	return base
}

func init() {
	configCmd.PersistentFlags().StringVar(&configFormat, "format", "yaml", "output format: json or yaml")

	f := configSetCmd.Flags()
	f.StringSliceVar(&configSet.Zones, "zones", nil, "zones to scan, e.g. \"Lyon 1, France\"")
	f.IntVar(&configSet.Radius, "radius", 0, "search radius in meters")
	f.IntVar(&configSet.MaxResultsPerZone, "max-results", 0, "max results per zone")
	f.IntVar(&configSet.MinReviews, "min-reviews", 0, "minimum Google review count")
	f.Float64Var(&configSet.MinRating, "min-rating", 0, "minimum Google rating")
	f.StringSliceVar(&configSet.PrioritySectors, "sectors", nil, "priority sectors searched in every zone")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
