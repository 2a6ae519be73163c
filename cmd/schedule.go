package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/prospect"
)

var (
	scheduleServe     bool
	scheduleHeuristic bool
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the feed and places scans on their cron schedules",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAgent(ctx, config.ModeSchedule, scheduleHeuristic)
		if err != nil {
			return err
		}
		defer env.Close()

		g, gctx := errgroup.WithContext(ctx)

		c := cron.New(cron.WithLogger(cronLogger{zap.S()}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{zap.S()})))
		if err := addScanJobs(gctx, c, cfg.Schedule, env.Agent); err != nil {
			return err
		}

		c.Start()
		g.Go(func() error {
			<-gctx.Done()
			<-c.Stop().Done()
			zap.L().Info("scheduler stopped")
			return nil
		})
		if scheduleServe {
			g.Go(func() error {
				return startServer(gctx, buildHandler(env), cfg.Server.Port)
			})
		}
		return g.Wait()
	},
}

// scanner is the subset of *prospect.Agent the scheduler runs.
type scanner interface {
	PlacesRun(ctx context.Context, out prospect.Emitter) (prospect.Tally, error)
	FeedRun(ctx context.Context, out prospect.Emitter) (prospect.Tally, error)
}

// addScanJobs registers one cron job per non-empty spec. Jobs run with ctx
// so a shutdown interrupts a scan in progress.
func addScanJobs(ctx context.Context, c *cron.Cron, sched config.ScheduleConfig, a scanner) error {
	add := func(spec, name string, run scanFunc) error {
		if spec == "" {
			return nil
		}
		_, err := c.AddFunc(spec, func() {
			log := zap.L().With(zap.String("scan", name))
			tally, err := run(ctx, prospect.LogEmitter(log))
			if err != nil {
				log.Error("scheduled scan failed", zap.Error(err))
				return
			}
			log.Info("scheduled scan complete", zap.Any("tally", tally))
		})
		if err != nil {
			return eris.Wrapf(err, "schedule %s scan %q", name, spec)
		}
		zap.L().Info("scan scheduled", zap.String("scan", name), zap.String("spec", spec))
		return nil
	}

	if err := add(sched.Feed, "feed", a.FeedRun); err != nil {
		return err
	}
	return add(sched.Places, "places", a.PlacesRun)
}

// cronLogger routes cron's logs to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleServe, "serve", false, "also serve the HTTP API")
	scheduleCmd.Flags().BoolVar(&scheduleHeuristic, "heuristic", false, "score places with the heuristic instead of the model")
	rootCmd.AddCommand(scheduleCmd)
}
