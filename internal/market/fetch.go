package market

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultSourceTimeout bounds each provider fetch. A slow or failing source
// contributes no observations instead of blocking the whole request.
const DefaultSourceTimeout = 10 * time.Second

// ErrMissingAPIKey marks a provider that was constructed without
// credentials. Callers distinguish it from runtime provider failures so the
// operator can be pointed at configuration instead of retries.
var ErrMissingAPIKey = errors.New("missing API key")

// Query identifies the product being priced.
type Query struct {
	Text    string
	Brand   string
	Model   string
	Barcode string
}

// Source is one external market data provider. Absence of data is not an
// error; a provider with nothing to say returns an empty slice.
type Source interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]Observation, error)
}

// SourceError records a provider that failed or timed out during a fetch.
type SourceError struct {
	Source string
	Reason string
	Config bool
}

// FetchReport is the settled result of fanning out to all sources.
type FetchReport struct {
	Observations []Observation
	Errors       []SourceError
}

// FetchAll queries every source concurrently and waits for all of them to
// settle, each under its own timeout. Failed or timed-out sources are
// reported in Errors and contribute zero observations; the fetch as a whole
// never fails.
func FetchAll(ctx context.Context, q Query, sources []Source, timeout time.Duration) FetchReport {
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}

	results := make([][]Observation, len(sources))

	var mu sync.Mutex
	var srcErrs []SourceError

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			srcCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			obs, err := src.Fetch(srcCtx, q)
			if err != nil {
				log.Warn().Err(err).Str("source", src.Name()).Msg("market source failed")
				mu.Lock()
				srcErrs = append(srcErrs, SourceError{
					Source: src.Name(),
					Reason: err.Error(),
					Config: errors.Is(err, ErrMissingAPIKey),
				})
				mu.Unlock()
				return nil
			}
			results[i] = obs
			return nil
		})
	}
	// Goroutines swallow their errors, so Wait only joins.
	_ = g.Wait()

	report := FetchReport{Errors: srcErrs}
	for _, obs := range results {
		report.Observations = append(report.Observations, obs...)
	}
	return report
}
