package jokeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"type":"general","setup":"s1","punchline":"p1"},{"id":2,"type":"programming","setup":"s2","punchline":"p2"}]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	drafts, err := c.Random(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "/jokes/random/2", gotPath)
	require.Len(t, drafts, 2)
	assert.Equal(t, int64(2), drafts[1].ID)
	assert.Equal(t, "programming", drafts[1].Type)
}

func TestRandomKeepsBasePath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/v1")
	require.NoError(t, err)

	drafts, err := c.Random(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, drafts)
	assert.Equal(t, "/v1/jokes/random/3", gotPath)
}

func TestRandomUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"server error", http.StatusInternalServerError, `oops`, true},
		{"not json", http.StatusOK, `<html>nope</html>`, true},
		{"ok", http.StatusOK, `[{"id":7}]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := New(srv.URL)
			require.NoError(t, err)

			_, err = c.Random(context.Background(), 1)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRandomZeroSkipsUpstream(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	drafts, err := c.Random(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, drafts)
	assert.False(t, called)
}

func TestRandomTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Random(context.Background(), 1)
	assert.Error(t, err)
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/jokes")
	assert.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL.String())
}
