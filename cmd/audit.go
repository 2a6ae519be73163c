package main

import (
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/audit"
	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

var (
	auditPlaceID  string
	auditBusiness model.BusinessEntity
	auditWebsite  string
	auditFormat   string
	auditOut      string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Build the web presence audit of a stored lead or of a business",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var entity model.BusinessEntity
		switch {
		case auditPlaceID != "":
			if err := cfg.Validate(config.ModeStore); err != nil {
				return err
			}
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			lead, err := st.GetLead(ctx, auditPlaceID)
			if err != nil {
				return err
			}
			entity = lead.Entity()
		case auditBusiness.Name != "":
			entity = auditBusiness
			if auditWebsite != "" {
				signals := initDetector().Detect(ctx, auditWebsite)
				entity.HasWebsite = signals.Exists
				entity.WebsiteSignals = &signals
			}
		default:
			return eris.New("--place-id or --name is required")
		}

		rep := audit.Build(entity, time.Now())

		var w io.Writer = cmd.OutOrStdout()
		if auditOut != "" {
			f, err := os.Create(auditOut)
			if err != nil {
				return eris.Wrap(err, "create audit file")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}
		if err := audit.Render(w, rep, audit.Format(auditFormat)); err != nil {
			return err
		}

		zap.L().Info("audit built",
			zap.String("business", rep.BusinessName),
			zap.String("file_name", rep.FileName),
			zap.Int("improvements", len(rep.Improvements)),
		)
		return nil
	},
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&auditPlaceID, "place-id", "", "Google place id of a stored lead")
	f.StringVar(&auditBusiness.Name, "name", "", "business name")
	f.StringVar(&auditBusiness.Category, "category", "", "business category")
	f.Float64Var(&auditBusiness.Rating, "rating", 0, "Google rating")
	f.IntVar(&auditBusiness.ReviewCount, "reviews", 0, "Google review count")
	f.StringVar(&auditWebsite, "website", "", "website URL to probe")
	f.StringVar(&auditFormat, "format", "json", "output format: json or yaml")
	f.StringVar(&auditOut, "out", "", "write the report to this file instead of stdout")
	rootCmd.AddCommand(auditCmd)
}
