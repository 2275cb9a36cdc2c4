package devtools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const versionPayload = `{
	"Browser": "Chrome/124.0.6367.91",
	"Protocol-Version": "1.3",
	"User-Agent": "Mozilla/5.0",
	"V8-Version": "12.4.254.14",
	"WebKit-Version": "537.36",
	"webSocketDebuggerUrl": "ws://localhost:9222/devtools/browser/abc"
}`

func TestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/version", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(versionPayload))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	info, err := c.Version(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "Chrome/124.0.6367.91", info.Browser)
	assert.Equal(t, "1.3", info.ProtocolVersion)
	assert.Equal(t, "ws://localhost:9222/devtools/browser/abc", info.WebSocketDebuggerURL)

	version, err := c.Probe(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Chrome/124.0.6367.91", version)
}

func TestVersionErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"no websocket url", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"Browser":"Chrome/124"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(time.Second).Probe(context.Background(), srv.URL)
			assert.Error(t, err)
		})
	}
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(200*time.Millisecond).Probe(context.Background(), url)
	assert.Error(t, err)
}

func TestProbeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(time.Second).Probe(ctx, "http://127.0.0.1:9")
	assert.Error(t, err)
}
