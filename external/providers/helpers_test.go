package providers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KingBodhi/jungleverse/internal/platform/cache"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/KingBodhi/jungleverse/internal/platform/ratelimit"
	"github.com/KingBodhi/jungleverse/internal/platform/resilience"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type testServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()

	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(maxRetries int, breakers *resilience.BreakerSet) *Client {
	client := NewClient(ClientConfig{
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
		Breakers:   breakers,
	})
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func newTestDeps() Deps {
	return Deps{
		Client:   newTestClient(0, nil),
		Cache:    cache.NewStore(time.Hour),
		Limiter:  ratelimit.New(),
		Logger:   logging.NewNop(),
		Throttle: time.Millisecond,
		Now:      func() time.Time { return testNow },
	}
}

func writeBody(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write([]byte(body))
}
