// Package pipeline runs one analysis: acquire, compute, detect, visualize.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/chart"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/recorder"
	"StockAnalyzer/internal/store"
	"StockAnalyzer/internal/strategy"
)

// Result holds what a run produced.
type Result struct {
	Series      *model.PriceSeries
	Patterns    []model.Pattern
	CSVPath     string
	ChartPath   string
	ParquetPath string
}

// Pipeline wires the stages of an analysis run together.
type Pipeline struct {
	Config    *config.Config
	Collector *collector.Collector
	Notifier  notifier.Notifier
	Presenter chart.Presenter
	Recorder  recorder.Recorder

	logger zerolog.Logger
}

// New creates a pipeline. Nil notifier, presenter and recorder fall back to
// stdout, no display and no history.
func New(cfg *config.Config, fetcher collector.Fetcher, n notifier.Notifier, p chart.Presenter, rec recorder.Recorder) *Pipeline {
	if n == nil {
		n = notifier.NewConsoleNotifier(nil)
	}
	if p == nil {
		p = chart.NoopPresenter{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{
		Config:    cfg,
		Collector: collector.NewCollector(fetcher, cfg.Output.Dir),
		Notifier:  n,
		Presenter: p,
		Recorder:  rec,
		logger:    log.With().Str("component", "pipeline").Logger(),
	}
}

// NewFetcher picks the data source: a saved CSV when csvPath is set,
// otherwise Yahoo Finance configured from cfg.
func NewFetcher(cfg *config.Config, csvPath string) collector.Fetcher {
	if csvPath != "" {
		return &collector.CSVFetcher{Path: csvPath}
	}
	return collector.NewYahooFetcher(collector.YahooOptions{
		BaseURL:    cfg.DataSource.BaseURL,
		AutoAdjust: cfg.AutoAdjust(),
		Client: collector.ClientOptions{
			Timeout:        cfg.Timeout(),
			Proxy:          cfg.DataSource.Proxy,
			MaxRetries:     cfg.DataSource.MaxRetries,
			RequestsPerSec: cfg.DataSource.RequestsPerSec,
		},
	})
}

func (p *Pipeline) say(text string) {
	if err := p.Notifier.Send(text); err != nil {
		p.logger.Warn().Err(err).Msg("report output failed")
	}
}

// Run executes the four stages once. Any stage failure aborts the run;
// artifacts already written are left in place.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	a := p.Config.Analysis
	symbol := a.Symbol
	res := &Result{}

	p.say(notifier.FormatBanner("Stock Price Analyzer"))

	// Stage 1: acquisition
	p.say(fmt.Sprintf("Downloading %s stock data...", symbol))
	series, csvPath, err := p.Collector.Collect(ctx, symbol, a.Period)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", symbol, err)
	}
	res.Series, res.CSVPath = series, csvPath
	p.say(fmt.Sprintf("Data saved to %s", csvPath))
	p.say(fmt.Sprintf("\nDownloaded %d days of data", series.Len()))

	// Stage 2: indicators
	p.say(notifier.FormatMovingAverages(a.ShortWindow, a.LongWindow))
	if err := calculator.AddMovingAverages(series, a.ShortWindow, a.LongWindow); err != nil {
		return nil, fmt.Errorf("compute moving averages: %w", err)
	}
	if p.Config.Output.Parquet {
		path := store.ParquetPath(p.Config.Output.Dir, symbol)
		if err := store.WriteParquet(path, series); err != nil {
			return nil, fmt.Errorf("export parquet: %w", err)
		}
		res.ParquetPath = path
		p.say(fmt.Sprintf("Parquet saved to %s", path))
	}

	// Stage 3: patterns
	p.say("\nDetecting trading patterns...")
	res.Patterns = strategy.DetectPatterns(series)
	p.say(notifier.FormatPatterns(res.Patterns))

	// Stage 4: chart
	p.say(fmt.Sprintf("\nCreating chart for %s...", symbol))
	fig, err := chart.Build(series)
	if err != nil {
		return nil, fmt.Errorf("build chart: %w", err)
	}
	chartPath := store.ChartPath(p.Config.Output.Dir, symbol)
	if err := fig.Save(chartPath, p.Config.Output.DPI); err != nil {
		return nil, fmt.Errorf("save chart: %w", err)
	}
	res.ChartPath = chartPath
	p.say(fmt.Sprintf("Chart saved to %s", chartPath))
	if p.Config.ShowChart() {
		if err := p.Presenter.Present(chartPath); err != nil {
			return nil, fmt.Errorf("display chart: %w", err)
		}
	}

	p.say(notifier.FormatSummary(series))
	p.say("\n" + notifier.FormatBanner("Analysis complete!"))

	p.record(res)
	p.logger.Info().Str("symbol", symbol).Int("rows", series.Len()).
		Int("patterns", len(res.Patterns)).Msg("analysis complete")
	return res, nil
}

// record stores the run in history. A failure is logged, not returned.
func (p *Pipeline) record(res *Result) {
	s := res.Series
	bar, short, long, _ := s.Last()
	snap := &recorder.RunSnapshot{
		Symbol:      s.Symbol,
		Period:      p.Config.Analysis.Period,
		Source:      p.Collector.Fetcher.Name(),
		Rows:        s.Len(),
		FirstDate:   s.Bars[0].Time,
		LastDate:    bar.Time,
		LastClose:   bar.Close,
		MAShort:     short,
		MALong:      long,
		ShortWindow: s.ShortWindow,
		LongWindow:  s.LongWindow,
		Patterns:    len(res.Patterns),
		CSVPath:     res.CSVPath,
		ChartPath:   res.ChartPath,
		ParquetPath: res.ParquetPath,
	}
	if len(res.Patterns) > 0 {
		snap.LastPattern = string(res.Patterns[0].Kind)
	}
	if err := p.Recorder.RecordRun(snap); err != nil {
		p.logger.Error().Err(err).Msg("record run")
	}
}
