package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealth_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","services":{"redis":true,"rss":true,"reddit":false,"twitter":true}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	status := client.CheckHealth(context.Background())
	require.NotNil(t, status)
	assert.Equal(t, "ok", status.Status)
	assert.True(t, status.Services.RSS)
	assert.False(t, status.Services.Reddit)
}

func TestCheckHealth_ServerErrorReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	assert.Nil(t, client.CheckHealth(context.Background()))
}

func TestCheckHealth_UnreachableReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL)
	assert.Nil(t, client.CheckHealth(context.Background()))
}

func TestCollectNews_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/collect", r.URL.Path)
		assert.Equal(t, "space,ai", r.URL.Query().Get("topics"))
		assert.Equal(t, "rss,twitter", r.URL.Query().Get("sources"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"space": [
				{"title":"Starship launch","content":"...","source":"rss","source_name":"BBC News","published_at":"2025-01-02T03:04:05Z","engagement":12},
				{"title":"Mars update","content":"...","source":"twitter","source_name":"@nasa","published_at":"2025-01-02T04:05:06Z","engagement":300}
			],
			"ai": []
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.CollectNews(context.Background(), []string{"space", "ai"}, []string{"rss", "twitter"})
	require.NoError(t, err)
	assert.Len(t, result["space"], 2)
	assert.Empty(t, result["ai"])
	assert.Equal(t, 2, result.TotalItems())
	assert.Equal(t, "BBC News", result["space"][0].SourceName)
}

func TestCollectNews_ServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"upstream scraper unavailable"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CollectNews(context.Background(), []string{"space"}, []string{"rss"})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusBadGateway, gwErr.StatusCode)
	assert.Equal(t, "upstream scraper unavailable", gwErr.Detail)
	assert.Equal(t, "upstream scraper unavailable", gwErr.Error())
}

func TestCollectNews_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text failure", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CollectNews(context.Background(), []string{"space"}, []string{"rss"})

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	assert.Empty(t, gwErr.Detail)
	assert.Contains(t, gwErr.Error(), "status 500")
}

func TestCollectNews_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL)
	client.collectTimeout = 50 * time.Millisecond

	_, err := client.CollectNews(context.Background(), []string{"space"}, []string{"rss"})

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, StatusTimeout, gwErr.StatusCode)
	assert.Contains(t, gwErr.Error(), "timed out")
}

func TestCollectNews_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.CollectNews(context.Background(), []string{"space"}, []string{"rss"})

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, StatusUnreachable, gwErr.StatusCode)
	assert.Contains(t, gwErr.Error(), "Cannot reach")
}
