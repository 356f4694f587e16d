package spotify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"spext/internal/shared"
)

// newTestClient builds a Client against handler with sleeps recorded
// instead of slept and jitter pinned to zero.
func newTestClient(t *testing.T, handler http.Handler, sleeps *[]time.Duration) (*Client, *atomic.Int64, func()) {
	t.Helper()

	var exchanges atomic.Int64
	tokenSrv := newTokenServer(t, &exchanges)
	apiSrv := httptest.NewServer(handler)

	logger := shared.NewLogger(io.Discard)
	tokens := NewTokenProvider("id", "secret", tokenSrv.URL, DefaultSafetyMargin, logger)

	c := NewClient(tokens, ClientOpts{
		BaseURL:   apiSrv.URL,
		RateLimit: 1000,
	}, logger)
	c.jitter = func() time.Duration { return 0 }
	c.sleep = func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}

	return c, &exchanges, func() {
		apiSrv.Close()
		tokenSrv.Close()
	}
}

func TestClientGet(t *testing.T) {
	t.Run("returns body on success", func(t *testing.T) {
		var sleeps []time.Duration
		c, _, cleanup := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
				t.Errorf("expected bearer header, got %q", got)
			}
			w.Write([]byte(`{"ok":true}`))
		}), &sleeps)
		defer cleanup()

		body, err := c.Get(context.Background(), "/albums")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(body) != `{"ok":true}` {
			t.Errorf("unexpected body: %s", body)
		}
	})

	t.Run("retries once after unauthorized", func(t *testing.T) {
		var calls atomic.Int64
		var sleeps []time.Duration
		c, exchanges, cleanup := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"ok":true}`))
		}), &sleeps)
		defer cleanup()

		body, err := c.Get(context.Background(), "/albums")
		if err != nil {
			t.Fatalf("expected recovery after 401, got %v", err)
		}
		if string(body) != `{"ok":true}` {
			t.Errorf("unexpected body: %s", body)
		}
		if n := calls.Load(); n != 2 {
			t.Errorf("expected 2 API calls, got %d", n)
		}
		if n := exchanges.Load(); n != 2 {
			t.Errorf("expected token re-exchange after 401, got %d exchanges", n)
		}
	})

	t.Run("honors Retry-After on 429", func(t *testing.T) {
		var calls atomic.Int64
		var sleeps []time.Duration
		c, _, cleanup := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "3")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}), &sleeps)
		defer cleanup()

		if _, err := c.Get(context.Background(), "/tracks"); err != nil {
			t.Fatalf("expected recovery after 429, got %v", err)
		}

		var waited bool
		for _, d := range sleeps {
			if d == 3*time.Second {
				waited = true
			}
		}
		if !waited {
			t.Errorf("expected a 3s pause from Retry-After, recorded %v", sleeps)
		}
	})

	t.Run("falls back when Retry-After is absent", func(t *testing.T) {
		var calls atomic.Int64
		var sleeps []time.Duration
		c, _, cleanup := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{}`))
		}), &sleeps)
		defer cleanup()

		if _, err := c.Get(context.Background(), "/tracks"); err != nil {
			t.Fatalf("expected recovery after 429, got %v", err)
		}

		var waited bool
		for _, d := range sleeps {
			if d == defaultRetryAfter {
				waited = true
			}
		}
		if !waited {
			t.Errorf("expected the default %v pause, recorded %v", defaultRetryAfter, sleeps)
		}
	})

	t.Run("does not retry other statuses", func(t *testing.T) {
		var calls atomic.Int64
		var sleeps []time.Duration
		c, _, cleanup := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "not found", http.StatusNotFound)
		}), &sleeps)
		defer cleanup()

		_, err := c.Get(context.Background(), "/albums?ids=missing")
		if err == nil {
			t.Fatal("expected error for 404")
		}

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %T: %v", err, err)
		}
		if statusErr.Status != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", statusErr.Status)
		}
		if n := calls.Load(); n != 1 {
			t.Errorf("expected a single attempt, got %d", n)
		}
	})

	t.Run("exhausts retries on transport failure", func(t *testing.T) {
		var sleeps []time.Duration
		c, _, cleanup := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), &sleeps)
		defer cleanup()
		c.maxRetries = 3
		c.baseURL = "http://127.0.0.1:1" // nothing listens here

		_, err := c.Get(context.Background(), "/albums")
		if !errors.Is(err, shared.ErrRetryExhausted) {
			t.Fatalf("expected ErrRetryExhausted, got %v", err)
		}

		// one backoff per failed attempt, doubling each time
		want := []time.Duration{DefaultBackoffBase, 2 * DefaultBackoffBase, 4 * DefaultBackoffBase}
		if len(sleeps) != len(want) {
			t.Fatalf("expected %d backoffs, recorded %v", len(want), sleeps)
		}
		for i, d := range want {
			if sleeps[i] != d {
				t.Errorf("backoff %d: expected %v, got %v", i, d, sleeps[i])
			}
		}
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		var sleeps []time.Duration
		c, _, cleanup := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}), &sleeps)
		defer cleanup()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := c.Get(ctx, "/albums"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("uses absolute pagination URLs verbatim", func(t *testing.T) {
		var sleeps []time.Duration
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c, _, cleanup := newTestClient(t, http.NotFoundHandler(), &sleeps)
		defer cleanup()

		if _, err := c.Get(context.Background(), srv.URL+"/next/page"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotPath != "/next/page" {
			t.Errorf("expected request to /next/page, got %s", gotPath)
		}
	})
}

func TestRetryAfter(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"parses seconds", "7", 7 * time.Second},
		{"empty header", "", defaultRetryAfter},
		{"garbage header", "soon", defaultRetryAfter},
		{"negative header", "-2", defaultRetryAfter},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.value != "" {
				h.Set("Retry-After", tc.value)
			}
			if got := retryAfter(h); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
