package types

import "context"

// NewsGateway is the backend aggregation API boundary.
type NewsGateway interface {
	// CheckHealth returns the backend health status, or nil if the backend
	// is unreachable, times out, or answers with a non-200 status.
	CheckHealth(ctx context.Context) *HealthStatus

	// CollectNews fetches items for the given topics from the given sources.
	// Failures are reported as *backend.GatewayError.
	CollectNews(ctx context.Context, topics, sources []string) (NewsResult, error)
}
