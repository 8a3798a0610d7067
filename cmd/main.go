package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/pugrank/pugrank/internal/adapters/render"
	"github.com/pugrank/pugrank/internal/adapters/source"
	app "github.com/pugrank/pugrank/internal/app"
	"github.com/pugrank/pugrank/internal/config"
	"github.com/pugrank/pugrank/pkg/logger"
	"github.com/pugrank/pugrank/pkg/metrics"
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		logger.Get().Error(ctx, "run failed", logger.Error(err))
		os.Exit(1)
	}
}

// newFlagSet declares the command-line surface. Flag names match the
// config keys so they layer directly over file and env settings.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pugrank", pflag.ContinueOnError)
	fs.String("settings", "", "path to a settings file (JSON or YAML)")
	fs.String("log_level", "info", "log verbosity: debug, info, warn, error")
	fs.String("domain", "", "match API base URL")
	fs.String("server_id", "", "server whose match history is rated")
	fs.Int64("date_start", 0, "history start, epoch milliseconds")
	fs.String("timezone", "UTC", "IANA timezone for date bucketing")
	fs.Int("min_games_required", 0, "minimum games to appear on the board")
	fs.Int("last_days_threshold", 0, "drop players idle longer than this many days (0 = off)")
	fs.Int("min_games_last_days", 0, "minimum games inside the recency window (0 = off)")
	fs.Bool("discard_ties", false, "skip matches with no winner")
	fs.Bool("decay_enabled", false, "enable inactivity sigma decay")
	fs.Float64("decay_amount", 0.1, "sigma increase per day of inactivity")
	fs.Int("grace_days", 14, "inactivity allowance before decay")
	fs.Float64("max_decay_proportion", 1.0, "sigma cap as a proportion of default_sigma")
	fs.Float64("default_mu", 25.0, "default skill mean for new players")
	fs.Float64("default_sigma", 25.0/3.0, "default skill uncertainty for new players")
	fs.Bool("verbose_output", false, "include secondary ids and source details")
	fs.Int("top_x", 0, "show only the top X players (0 = all)")
	fs.Bool("write_txt", false, "write the report to a text file under out/")
	fs.Bool("write_csv", false, "write the rows to a CSV file under out/")
	fs.String("json_file", "", "read match history from this JSON file instead of the API")
	fs.String("metrics_push_url", "", "Pushgateway base URL for run metrics")
	return fs
}

func run(ctx context.Context, args []string) error {
	log := logger.Get()

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	settingsPath, _ := fs.GetString("settings")

	cfg, err := config.Load(ctx, settingsPath, fs)
	if err != nil {
		return err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	runID := uuid.NewString()
	log = log.Named("run")
	log.Info(ctx, "starting rating run", logger.String("runID", runID))

	src := source.Select(cfg)
	matches, err := src.Matches(ctx)
	if err != nil {
		return err
	}
	log.Info(ctx, "loaded match history", logger.Int("matches", len(matches)))

	engine := app.New(cfg, app.WithLogger(log.Named("engine")))
	result, err := engine.Run(ctx, matches)
	if err != nil {
		return err
	}

	var renderOpts []render.Option
	if httpSrc, ok := src.(*source.HTTPSource); ok {
		renderOpts = append(renderOpts, render.WithSourceURL(httpSrc.URL()))
	}
	renderer := render.New(cfg, runID, renderOpts...)

	if err := renderer.Write(os.Stdout, result); err != nil {
		return err
	}
	paths, err := renderer.WriteFiles(result)
	if err != nil {
		return err
	}
	for _, p := range paths {
		log.Info(ctx, "wrote output file", logger.String("path", p))
	}

	if cfg.MetricsPushURL != "" {
		if err := metrics.Push(ctx, cfg.MetricsPushURL, runID); err != nil {
			// Metrics are best-effort; a dead gateway must not fail the run.
			log.Warn(ctx, "metrics push failed", logger.Error(err))
		}
	}

	return nil
}
