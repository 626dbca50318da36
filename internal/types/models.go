package types

import "time"

// SessionState is the lifecycle state of the briefing session. Exactly one
// value is active at a time, owned by the session store.
type SessionState string

const (
	StateIdle         SessionState = "idle"
	StateStarting     SessionState = "starting"
	StateAskingTopics SessionState = "asking_topics"
	StateCollecting   SessionState = "collecting"
	StateBriefing     SessionState = "briefing"
	StateError        SessionState = "error"
)

// FeedItem is a single article as returned by the aggregation backend.
// The JSON shape mirrors the backend wire format and is passed through to
// the voice agent, so field names must not change.
type FeedItem struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source"`
	SourceName  string `json:"source_name"`
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"published_at"`
	Engagement  int    `json:"engagement"`
}

// NewsResult maps each requested topic to the items collected for it.
// A topic missing from the map is equivalent to an empty slice.
type NewsResult map[string][]FeedItem

// TotalItems returns the aggregate item count across all topics.
func (r NewsResult) TotalItems() int {
	var n int
	for _, items := range r {
		n += len(items)
	}
	return n
}

// CoveredTopic records that a topic was collected during the session, with
// count and provenance. Records are append-only and survive a session reset.
type CoveredTopic struct {
	Name      string    `json:"name"`
	ItemCount int       `json:"item_count"`
	CoveredAt time.Time `json:"covered_at"`
	Sources   []string  `json:"sources"`
}

// HealthStatus is the backend's /api/health response. Polled, never stored.
type HealthStatus struct {
	Status   string `json:"status"`
	Services struct {
		Redis   bool `json:"redis"`
		RSS     bool `json:"rss"`
		Reddit  bool `json:"reddit"`
		Twitter bool `json:"twitter"`
	} `json:"services"`
}
