package action

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebSearch_NoAPIKey(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "")

	_, err := NewWebSearch()
	assert.ErrorIs(t, err, ErrNoSearchKey)
}

func TestWebSearch_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Subscription-Token"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		assert.Equal(t, "US", r.URL.Query().Get("country"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"The Go Programming Language","url":"https://go.dev","description":"Build simple software"},
			{"title":"Go wiki","url":"https://go.dev/wiki","description":"Community wiki"}
		]}}`))
	}))
	defer server.Close()

	ws, err := NewWebSearch(
		WithSearchAPIKey("secret"),
		WithSearchBaseURL(server.URL),
		WithSearchCount(3),
		WithSearchLocale("US", "en"),
	)
	require.NoError(t, err)

	out, err := ws.Call(context.Background(), map[string]any{"query": "golang"})
	require.NoError(t, err)
	assert.Contains(t, out, "1. The Go Programming Language")
	assert.Contains(t, out, "https://go.dev/wiki")
}

func TestWebSearch_MissingQuery(t *testing.T) {
	ws, err := NewWebSearch(WithSearchAPIKey("secret"))
	require.NoError(t, err)

	_, err = ws.Call(context.Background(), nil)
	assert.ErrorContains(t, err, "missing query")
}

func TestWebSearch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	ws, err := NewWebSearch(WithSearchAPIKey("bad"), WithSearchBaseURL(server.URL))
	require.NoError(t, err)

	_, err = ws.Call(context.Background(), map[string]any{"query": "x"})
	assert.ErrorContains(t, err, "unexpected status 401")
}

func TestWebSearch_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer server.Close()

	ws, err := NewWebSearch(WithSearchAPIKey("secret"), WithSearchBaseURL(server.URL))
	require.NoError(t, err)

	out, err := ws.Call(context.Background(), map[string]any{"query": "nothing"})
	require.NoError(t, err)
	assert.Equal(t, "No results found", out)
}

func TestWebSearch_CountClamped(t *testing.T) {
	ws, err := NewWebSearch(WithSearchAPIKey("k"), WithSearchCount(50))
	require.NoError(t, err)
	assert.Equal(t, 20, ws.count)

	ws, err = NewWebSearch(WithSearchAPIKey("k"), WithSearchCount(0))
	require.NoError(t, err)
	assert.Equal(t, 1, ws.count)
}
