package news

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"gainerscan/pkg/market"
)

// Source returns recent headlines for one ticker.
type Source interface {
	Name() string
	Headlines(ctx context.Context, ticker string, since time.Time, limit int) ([]market.Headline, error)
}

type fallback struct {
	sources []Source
}

// Fallback queries sources in order and returns the first non-empty result.
// Failures from sources tried before it are returned alongside the headlines.
func Fallback(sources ...Source) Source {
	if len(sources) == 1 {
		return sources[0]
	}
	return &fallback{sources: sources}
}

func (f *fallback) Name() string {
	name := ""
	for i, s := range f.sources {
		if i > 0 {
			name += "+"
		}
		name += s.Name()
	}
	return name
}

func (f *fallback) Headlines(ctx context.Context, ticker string, since time.Time, limit int) ([]market.Headline, error) {
	var errs error
	for _, s := range f.sources {
		headlines, err := s.Headlines(ctx, ticker, since, limit)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if len(headlines) > 0 {
			return headlines, errs
		}
	}
	return nil, errs
}
