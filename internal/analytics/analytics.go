// Package analytics projects a user's logs into the time-bucketed
// productivity series used for charting. Pure read; nothing here mutates.
package analytics

import (
	"context"

	"github.com/devlog/devlog-cli/internal/api"
	"github.com/devlog/devlog-cli/internal/model"
)

// WindowDays is the size of the productivity window, ending today.
const WindowDays = 30

// Aggregator caches the last successfully fetched series. A failed fetch
// leaves the previous series untouched — the view degrades to its
// last-known-good data instead of blanking.
type Aggregator struct {
	client *api.Client
	series []model.ProductivityPoint
}

// NewAggregator creates an empty aggregator backed by the given client.
func NewAggregator(client *api.Client) *Aggregator {
	return &Aggregator{client: client}
}

// Refresh fetches the series for a window of the given size. Only a
// successful response replaces the cached series; state is never cleared
// before the fetch resolves.
func (a *Aggregator) Refresh(ctx context.Context, days int) error {
	series, err := a.client.Productivity(ctx, days)
	if err != nil {
		return err
	}
	a.series = series
	return nil
}

// Series returns the last successfully fetched points, ordered by date.
// Days without activity are simply absent; gaps are not zero-filled.
func (a *Aggregator) Series() []model.ProductivityPoint {
	return a.series
}
