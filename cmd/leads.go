package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/export"
	"github.com/Loan69/ai-agent-prospection/internal/store"
)

// exportLimit bounds the rows read for a spreadsheet export.
const exportLimit = 10000

var (
	leadsFilter   store.LeadFilter
	leadsProjects bool
	leadsFormat   string
	leadsOut      string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect stored leads and projects",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored leads, best first",
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

		if leadsProjects {
			projects, err := st.ListProjects(ctx, store.ProjectFilter{
				Limit:  leadsFilter.Limit,
				Offset: leadsFilter.Offset,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), projects, leadsFormat)
		}

		leads, err := st.ListLeads(ctx, leadsFilter)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), leads, leadsFormat)
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads and projects to an XLSX workbook",
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

		leads, err := st.ListLeads(ctx, store.LeadFilter{MinScore: leadsFilter.MinScore, Limit: exportLimit})
		if err != nil {
			return err
		}
		projects, err := st.ListProjects(ctx, store.ProjectFilter{MatchedOnly: true, Limit: exportLimit})
		if err != nil {
			return err
		}
		if err := export.Save(leadsOut, leads, projects); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("file", leadsOut),
			zap.Int("leads", len(leads)),
			zap.Int("projects", len(projects)),
		)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{leadsListCmd, leadsExportCmd} {
		c.Flags().IntVar(&leadsFilter.MinScore, "min-score", 0, "minimum lead score")
	}
	leadsListCmd.Flags().IntVar(&leadsFilter.Limit, "limit", 100, "max rows")
	leadsListCmd.Flags().IntVar(&leadsFilter.Offset, "offset", 0, "rows to skip")
	leadsListCmd.Flags().BoolVar(&leadsProjects, "projects", false, "list feed projects instead of places leads")
	leadsListCmd.Flags().StringVar(&leadsFormat, "format", "json", "output format: json or yaml")
	leadsExportCmd.Flags().StringVar(&leadsOut, "out", "leads.xlsx", "workbook path")

	leadsCmd.AddCommand(leadsListCmd, leadsExportCmd)
	rootCmd.AddCommand(leadsCmd)
}
