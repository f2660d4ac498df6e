// Package checker runs the fetch, diff, notify, persist cycle that makes up
// one watch pass.
package checker

import (
	"context"
	"fmt"

	"copartwatch/internal/copart"
	"copartwatch/internal/filter"
	"copartwatch/internal/models"
	"copartwatch/internal/notify"
	"copartwatch/internal/seen"
	"github.com/rs/zerolog"
)

// Fetcher produces the current search results for a set of criteria.
type Fetcher interface {
	Fetch(ctx context.Context, criteria models.Criteria) (models.SearchResult, error)
}

// Notifier delivers one alert message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Config struct {
	StatePath string
	Criteria  models.Criteria
	DryRun    bool
}

type Checker struct {
	cfg      Config
	fetcher  Fetcher
	notifier Notifier
	log      zerolog.Logger
}

func New(cfg Config, fetcher Fetcher, notifier Notifier, log zerolog.Logger) *Checker {
	return &Checker{cfg: cfg, fetcher: fetcher, notifier: notifier, log: log}
}

// Report is the outcome of one completed run. NotifyErr carries the delivery
// error when the alert could not be sent; the run itself still succeeds.
type Report struct {
	Summary   models.RunSummary
	Fresh     []models.Listing
	Notified  bool
	NotifyErr error
}

// Run performs one check. Fetch and state errors abort the run before any
// side effect; a failed notification is logged and the run continues, so a
// flaky Telegram delivery never wedges the state file behind retries of the
// same lots. The state update is a union, so lots that drop out of the
// search stay remembered.
func (c *Checker) Run(ctx context.Context) (Report, error) {
	result, err := c.fetcher.Fetch(ctx, c.cfg.Criteria)
	if err != nil {
		return Report{}, fmt.Errorf("fetch listings: %w", err)
	}
	c.log.Debug().
		Int("listings", len(result.Listings)).
		Int("total", result.Total).
		Str("source", result.Source).
		Msg("search complete")

	matches := filter.Apply(result.Listings, c.cfg.Criteria)
	c.log.Debug().Int("matches", len(matches)).Msg("criteria applied")

	prior, err := seen.Load(c.cfg.StatePath)
	if err != nil {
		return Report{}, fmt.Errorf("load state: %w", err)
	}

	fresh := seen.Diff(matches, prior)
	report := Report{
		Summary: models.RunSummary{
			OK:             true,
			NewCars:        len(fresh),
			TotalCount:     result.Total,
			PreviouslySeen: prior.Len(),
			CurrentlySeen:  len(matches),
		},
		Fresh: fresh,
	}

	if len(fresh) == 0 {
		c.log.Info().Int("seen", prior.Len()).Msg("no new listings")
		return report, nil
	}
	c.log.Info().
		Int("count", len(fresh)).
		Strs("lots", seen.LotNumbers(fresh)).
		Msg("new listings found")

	if c.cfg.DryRun {
		c.log.Info().Msg("dry run, skipping notification and state update")
		return report, nil
	}

	message := notify.ComposeAlert(fresh, result.Total, c.cfg.Criteria, copart.SearchURL)
	if err := c.notifier.Send(ctx, message); err != nil {
		c.log.Error().Err(err).Msg("notification failed, continuing")
		report.NotifyErr = err
	} else {
		report.Notified = true
	}

	if err := seen.Save(c.cfg.StatePath, prior.Union(seen.LotNumbers(matches))); err != nil {
		return report, fmt.Errorf("save state: %w", err)
	}
	c.log.Debug().Str("path", c.cfg.StatePath).Msg("state saved")

	return report, nil
}
