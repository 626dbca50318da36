package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/newsradio/internal/health"
	"github.com/user/newsradio/internal/session"
	"github.com/user/newsradio/internal/sources"
	"github.com/user/newsradio/internal/types"
)

type stubInfo struct {
	id     types.ConversationID
	active bool
}

func (s stubInfo) ConversationID() types.ConversationID { return s.id }
func (s stubInfo) Active() bool                         { return s.active }

type offlineGateway struct{}

func (offlineGateway) CheckHealth(ctx context.Context) *types.HealthStatus { return nil }
func (offlineGateway) CollectNews(ctx context.Context, topics, sources []string) (types.NewsResult, error) {
	return nil, nil
}

func newTestServer(store *session.Store, info SessionInfo) *Server {
	monitor := health.New(offlineGateway{}, "@every 1h", nil)
	return NewServer(store, sources.NewStore(), info, monitor)
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(session.NewStore(), stubInfo{})
	rec := get(t, srv, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleState(t *testing.T) {
	store := session.NewStore()
	store.Dispatch(session.SetState{State: types.StateBriefing})
	store.Dispatch(session.SetCurrentTopic{Topic: "space"})

	srv := newTestServer(store, stubInfo{id: "conv-1", active: true})
	rec := get(t, srv, "/api/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State          string          `json:"state"`
		CurrentTopic   string          `json:"current_topic"`
		ConversationID string          `json:"conversation_id"`
		Active         bool            `json:"active"`
		Sources        map[string]bool `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "briefing", resp.State)
	assert.Equal(t, "space", resp.CurrentTopic)
	assert.Equal(t, "conv-1", resp.ConversationID)
	assert.True(t, resp.Active)
	assert.True(t, resp.Sources["rss"])
}

func TestHandleTopics(t *testing.T) {
	store := session.NewStore()
	store.Dispatch(session.AddCoveredTopic{Topic: types.CoveredTopic{Name: "space", ItemCount: 2, Sources: []string{"BBC News"}}})

	srv := newTestServer(store, stubInfo{})
	rec := get(t, srv, "/api/topics")
	require.Equal(t, http.StatusOK, rec.Code)

	var topics []types.CoveredTopic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topics))
	require.Len(t, topics, 1)
	assert.Equal(t, "space", topics[0].Name)
}

func TestHandleTopics_EmptyIsArray(t *testing.T) {
	srv := newTestServer(session.NewStore(), stubInfo{})
	rec := get(t, srv, "/api/topics")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleBackend_Offline(t *testing.T) {
	srv := newTestServer(session.NewStore(), stubInfo{})
	rec := get(t, srv, "/api/backend")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Online bool `json:"online"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Online)
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(session.NewStore(), stubInfo{})
	req := httptest.NewRequest(http.MethodPost, "/api/state", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
