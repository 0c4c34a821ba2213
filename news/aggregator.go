package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inquiry-relay/config"
	"inquiry-relay/models"
)

var (
	ErrNoHeadlines  = errors.New("search returned no headlines")
	ErrEmptySummary = errors.New("summary is empty")
)

type Searcher interface {
	Search(ctx context.Context, query string, n int64) ([]models.Headline, error)
}

type HeadlineSummarizer interface {
	Summarize(ctx context.Context, headlines []models.Headline) (string, error)
}

type TickerWriter interface {
	SaveHour(ctx context.Context, date string, hour int, summary string) error
}

// Aggregator builds the hourly ticker line: search, summarize, merge write.
type Aggregator struct {
	config     *config.Config
	search     Searcher
	summarizer HeadlineSummarizer
	store      TickerWriter
	location   *time.Location
	logger     *zap.Logger
}

func NewAggregator(
	cfg *config.Config,
	search Searcher,
	summarizer HeadlineSummarizer,
	store TickerWriter,
	location *time.Location,
	logger *zap.Logger,
) *Aggregator {
	return &Aggregator{
		config:     cfg,
		search:     search,
		summarizer: summarizer,
		store:      store,
		location:   location,
		logger:     logger,
	}
}

// Run performs one aggregation for the hour containing now. Nothing is
// written unless both upstream calls return content.
func (a *Aggregator) Run(ctx context.Context, now time.Time) error {
	err := a.run(ctx, now)
	switch {
	case err == nil:
		runsTotal.WithLabelValues("written").Inc()
	case errors.Is(err, config.ErrConfigMissing):
		runsTotal.WithLabelValues("config_missing").Inc()
	case errors.Is(err, ErrNoHeadlines), errors.Is(err, ErrEmptySummary):
		runsTotal.WithLabelValues("empty").Inc()
	default:
		runsTotal.WithLabelValues("failed").Inc()
	}
	if err != nil {
		a.logger.Error("news ticker run aborted", zap.Error(err))
	}
	return err
}

func (a *Aggregator) run(ctx context.Context, now time.Time) error {
	if err := a.config.RequireNews(); err != nil {
		return err
	}

	headlines, err := a.search.Search(ctx, a.config.News.Query, a.config.News.ResultCount)
	if err != nil {
		return err
	}
	if len(headlines) == 0 {
		return ErrNoHeadlines
	}

	summary, err := a.summarizer.Summarize(ctx, headlines)
	if err != nil {
		return err
	}
	if summary == "" {
		return ErrEmptySummary
	}

	local := now.In(a.location)
	date := DateKey(local)
	hour := local.Hour()
	if err := a.store.SaveHour(ctx, date, hour, summary); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	a.logger.Info("top financial news headlines",
		zap.String("date", date),
		zap.Int("hour", hour),
		zap.Int("sources", len(headlines)),
		zap.String("headlines", summary))
	return nil
}
