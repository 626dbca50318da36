// Package collector orchestrates one round of news collection: it validates
// the enabled sources, delegates to the backend gateway, and summarizes the
// outcome into covered-topic records.
package collector

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/user/newsradio/internal/sources"
	"github.com/user/newsradio/internal/types"
)

// ErrNoSourcesEnabled is returned before any network call when every source
// is toggled off. This is a user-configuration problem, not a backend one.
// The message is narrated to the listener verbatim, so it reads as full
// sentences like the gateway error messages.
var ErrNoSourcesEnabled = errors.New("No news sources enabled. Enable at least one source in Settings.")

// Collector runs news collection rounds against the backend gateway.
type Collector struct {
	gateway types.NewsGateway
	sources *sources.Store
}

// New creates a Collector reading source selection from the given store.
func New(gateway types.NewsGateway, src *sources.Store) *Collector {
	return &Collector{gateway: gateway, sources: src}
}

// Collect fetches news for the given topics from the currently enabled
// sources. The source list is read once at invocation, so toggles made while
// the request is in flight do not affect it. A round with zero items is a
// valid result, not an error; gateway failures propagate unchanged.
func (c *Collector) Collect(ctx context.Context, topics []string) (types.NewsResult, error) {
	enabled := c.sources.Enabled()
	if len(enabled) == 0 {
		return nil, ErrNoSourcesEnabled
	}

	result, err := c.gateway.CollectNews(ctx, topics, enabled)
	if err != nil {
		return nil, err
	}

	if result.TotalItems() == 0 {
		slog.Warn("no news found",
			"topics", strings.Join(topics, ","),
			"sources", strings.Join(enabled, ","),
		)
	}
	return result, nil
}

// Summarize builds one CoveredTopic per requested topic, in request order.
// Topics that came back empty still get a record with ItemCount 0.
func Summarize(topics []string, result types.NewsResult, now time.Time) []types.CoveredTopic {
	covered := make([]types.CoveredTopic, 0, len(topics))
	for _, topic := range topics {
		items := result[topic]
		seen := make(map[string]bool)
		var names []string
		for _, item := range items {
			if !seen[item.SourceName] {
				seen[item.SourceName] = true
				names = append(names, item.SourceName)
			}
		}
		covered = append(covered, types.CoveredTopic{
			Name:      topic,
			ItemCount: len(items),
			CoveredAt: now,
			Sources:   names,
		})
	}
	return covered
}
