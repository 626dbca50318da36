package health

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/newsradio/internal/types"
)

type fakeGateway struct {
	mu     sync.Mutex
	status *types.HealthStatus
	calls  int
}

func (f *fakeGateway) CheckHealth(ctx context.Context) *types.HealthStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.status
}

func (f *fakeGateway) CollectNews(ctx context.Context, topics, sources []string) (types.NewsResult, error) {
	return nil, nil
}

func (f *fakeGateway) setStatus(s *types.HealthStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestMonitor_TracksStatus(t *testing.T) {
	gw := &fakeGateway{}
	healthy := &types.HealthStatus{Status: "ok"}
	gw.setStatus(healthy)

	var mu sync.Mutex
	var seen []*types.HealthStatus
	m := New(gw, "@every 50ms", func(status *types.HealthStatus) {
		mu.Lock()
		seen = append(seen, status)
		mu.Unlock()
	})
	require.NoError(t, m.Start())
	defer m.Stop()

	waitFor(t, m.Online)
	assert.Equal(t, "ok", m.Last().Status)

	// Backend goes away; the monitor should flip offline.
	gw.setStatus(nil)
	waitFor(t, func() bool { return !m.Online() })
	assert.Nil(t, m.Last())

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, seen)
}

func TestMonitor_InvalidInterval(t *testing.T) {
	m := New(&fakeGateway{}, "not-a-schedule", nil)
	assert.Error(t, m.Start())
}

func TestMonitor_BeforeFirstPoll(t *testing.T) {
	m := New(&fakeGateway{}, "@every 1h", nil)
	assert.False(t, m.Online())
	assert.Nil(t, m.Last())
}
