package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/pipeline"
	"StockAnalyzer/internal/recorder"
	"StockAnalyzer/internal/scheduler"
)

var (
	configFile  string
	symbol      string
	period      string
	shortWindow int
	longWindow  int
	outputDir   string
	fromCSV     string
	parquet     bool
	noShow      bool
	logLevel    string
	historySize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "analyzer",
		Short:         "Download daily prices, compute moving averages and detect crossovers",
		Long:          `Fetches a year of daily OHLCV data for a ticker, computes short and long simple moving averages, reports recent golden and dead crosses, and saves a chart.`,
		RunE:          runAnalyze,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", config.DefaultPath, "Path to config file")
	pf.StringVar(&symbol, "symbol", "", "Ticker symbol (default AAPL)")
	pf.StringVar(&period, "period", "", "History period, e.g. 1y, 6mo, 30d (default 1y)")
	pf.IntVar(&shortWindow, "short", 0, "Short moving average window (default 5)")
	pf.IntVar(&longWindow, "long", 0, "Long moving average window (default 20)")
	pf.StringVar(&outputDir, "output-dir", "", "Directory for CSV and chart output (default data)")
	pf.StringVar(&fromCSV, "from-csv", "", "Analyze a previously saved CSV instead of downloading")
	pf.BoolVar(&parquet, "parquet", false, "Also export prices and averages to Parquet")
	pf.BoolVar(&noShow, "no-show", false, "Save the chart without opening it")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Re-run the analysis on the configured cron schedule",
		RunE:  runSchedule,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs",
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVar(&historySize, "limit", 20, "Maximum number of runs to list")

	rootCmd.AddCommand(scheduleCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if symbol != "" {
		cfg.Analysis.Symbol = symbol
	}
	if period != "" {
		cfg.Analysis.Period = period
	}
	if cmd.Flags().Changed("short") {
		cfg.Analysis.ShortWindow = shortWindow
	}
	if cmd.Flags().Changed("long") {
		cfg.Analysis.LongWindow = longWindow
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if parquet {
		cfg.Output.Parquet = true
	}
	if noShow {
		cfg.SetShowChart(false)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(lvl)
}

func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newPipeline(cfg *config.Config, rec recorder.Recorder, presenter chart.Presenter) *pipeline.Pipeline {
	fetcher := pipeline.NewFetcher(cfg, fromCSV)
	log.Debug().Str("source", fetcher.Name()).Msg("data source selected")
	return pipeline.New(cfg, fetcher, nil, presenter, rec)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rec := openRecorder(cfg)
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, err = newPipeline(cfg, rec, chart.BrowserPresenter{}).Run(ctx)
	return err
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rec := openRecorder(cfg)
	defer rec.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Unattended runs never open a viewer.
	sched := scheduler.NewScheduler(ctx, newPipeline(cfg, rec, chart.NoopPresenter{}))
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	log.Info().Str("cron", cfg.Schedule.Cron).Str("symbol", cfg.Analysis.Symbol).
		Msg("analyzer is running. Press Ctrl+C to stop.")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
	sched.Stop()
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is not set")
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer sr.Close()

	runs, err := sr.RecentRuns(symbol, historySize)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %-6s %-4s rows=%-4d close=%-10.2f patterns=%d %s\n",
			r.Timestamp.Format("2006-01-02 15:04"), r.Symbol, r.Period, r.Rows, r.LastClose, r.Patterns, r.LastPattern)
	}
	return nil
}
