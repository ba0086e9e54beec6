package scan

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gainerscan/pkg/config"
	"gainerscan/pkg/market"
	"gainerscan/pkg/table"
	"gainerscan/pkg/tradeplan"
)

// PollInterval is the pause after each realtime iteration.
const PollInterval = 30 * time.Second

type GainersFetcher interface {
	Gainers(ctx context.Context) ([]market.GainerRecord, error)
}

type RowEnricher interface {
	Enrich(ctx context.Context, gainers []market.GainerRecord) ([]tradeplan.Row, error)
}

// Snapshot runs the one-shot pipeline: fetch gainers, enrich the top N, print
// the trade plan table.
type Snapshot struct {
	Gainers  GainersFetcher
	Enricher RowEnricher
	Out      io.Writer
	Logger   *zap.Logger
}

func (s *Snapshot) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("scan_id", uuid.NewString()))
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	start := time.Now()
	gainers, err := s.Gainers.Gainers(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch gainers")
	}
	logger.Info("fetched gainers", zap.Int("count", len(gainers)))

	rows, err := s.Enricher.Enrich(ctx, gainers)
	if degraded := len(multierr.Errors(err)); degraded > 0 {
		logger.Warn("some lookups failed", zap.Int("failures", degraded))
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "snapshot interrupted")
	}

	table.TradePlans(out, rows)
	logger.Info("snapshot complete",
		zap.Int("rows", len(rows)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Poller prints the top gainers on a fixed cadence until its context ends.
// A failed iteration is logged and the loop carries on.
type Poller struct {
	Gainers GainersFetcher
	Out     io.Writer
	Logger  *zap.Logger
	TopN    int
	// Interval defaults to PollInterval.
	Interval time.Duration
	Now      func() time.Time
}

// Tick performs one iteration: timestamp line, then the gainers table.
func (p *Poller) Tick(ctx context.Context) error {
	logger := p.logger().With(zap.String("scan_id", uuid.NewString()))
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	gainers, err := p.Gainers.Gainers(ctx)
	if err != nil {
		return errors.Wrap(err, "fetch gainers")
	}
	if p.TopN > 0 && len(gainers) > p.TopN {
		gainers = gainers[:p.TopN]
	}

	out := p.out()
	table.Timestamp(out, now())
	table.Gainers(out, gainers)
	logger.Debug("poll complete", zap.Int("rows", len(gainers)))
	return nil
}

// Run loops until ctx is cancelled, then returns nil. The wait happens after
// each iteration, so a slow fetch stretches the cycle.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = PollInterval
	}
	logger := p.logger()
	logger.Info("polling gainers", zap.Duration("interval", interval))

	for {
		if err := p.Tick(ctx); err != nil && ctx.Err() == nil {
			logger.Error("poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Info("polling stopped")
			return nil
		case <-time.After(interval):
		}
	}
}

func (p *Poller) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Poller) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// ExitCode maps a pipeline result to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
