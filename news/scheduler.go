package news

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler fires the aggregator on a cron expression.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func NewScheduler(spec string, location *time.Location, agg *Aggregator, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(location))
	_, err := c.AddFunc(spec, func() {
		// errors are logged by the aggregator
		_ = agg.Run(context.Background(), time.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("invalid news schedule %q: %w", spec, err)
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("news ticker scheduled", zap.Time("next_run", e.Next))
	}
}

// Stop halts the schedule and returns a context done when running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
