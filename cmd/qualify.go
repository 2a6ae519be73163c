package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/export"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

var (
	qualifyLead        model.RawLead
	qualifyXLSX        string
	qualifyConcurrency int
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify",
	Short: "Qualify a lead, or every row of an XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var leads []model.RawLead
		switch {
		case qualifyXLSX != "":
			rows, err := export.ReadRawLeads(qualifyXLSX)
			if err != nil {
				return err
			}
			leads = rows
		case qualifyLead.CompanyName != "":
			leads = []model.RawLead{qualifyLead}
		default:
			return eris.New("--company or --xlsx is required")
		}

		env, err := initAgent(ctx, config.ModeLLM, false)
		if err != nil {
			return err
		}
		defer env.Close()

		results, err := qualifyBatch(ctx, leads, qualifyConcurrency, env.Agent.Qualify)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), results, "json")
	},
}

type qualifyFunc func(ctx context.Context, lead model.RawLead) (*model.QualifiedLead, error)

// qualifyBatch qualifies leads concurrently. Results keep input order; a
// failed lead leaves a nil entry and does not abort the batch.
func qualifyBatch(ctx context.Context, leads []model.RawLead, concurrency int, qualify qualifyFunc) ([]*model.QualifiedLead, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	zap.L().Info("qualifying leads",
		zap.Int("leads", len(leads)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]*model.QualifiedLead, len(leads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64
	for i, lead := range leads {
		g.Go(func() error {
			log := zap.L().With(zap.String("company", lead.CompanyName))
			q, err := qualify(gctx, lead)
			if err != nil {
				failed.Add(1)
				log.Error("qualification failed", zap.Error(err))
				return nil
			}
			succeeded.Add(1)
			log.Info("lead qualified",
				zap.Int("score", q.Score),
				zap.String("verdict", string(q.Verdict)),
			)
			results[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "qualify batch")
	}
	if err := ctx.Err(); err != nil {
		return results, eris.Wrap(err, "qualify batch")
	}

	zap.L().Info("qualification complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results, nil
}

func init() {
	f := qualifyCmd.Flags()
	f.StringVar(&qualifyLead.CompanyName, "company", "", "company name")
	f.StringVar(&qualifyLead.City, "city", "", "company city")
	f.StringVar(&qualifyLead.Sector, "sector", "", "business sector")
	f.StringVar(&qualifyLead.Source, "source", "cli", "lead source")
	f.StringVar(&qualifyXLSX, "xlsx", "", "XLSX file of leads (header row: company_name, city, sector, source)")
	f.IntVar(&qualifyConcurrency, "concurrency", 2, "leads qualified in parallel")
	rootCmd.AddCommand(qualifyCmd)
}
