package robots

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const policy = `User-agent: *
Disallow: /private/
Allow: /
`

func TestAllowed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(policy))
	}))
	defer server.Close()

	cache := New("test-agent", 5*time.Second)
	if !cache.Allowed(server.URL + "/articles/x") {
		t.Fatal("expected public path to be allowed")
	}
	if cache.Allowed(server.URL + "/private/x") {
		t.Fatal("expected private path to be disallowed")
	}
}

func TestAllowedCachesPerOrigin(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write([]byte(policy))
	}))
	defer server.Close()

	cache := New("test-agent", 5*time.Second)
	for i := 0; i < 3; i++ {
		if !cache.Allowed(server.URL + "/articles/x") {
			t.Fatal("expected path to be allowed")
		}
	}
	if fetches.Load() != 1 {
		t.Fatalf("expected one policy fetch, got %d", fetches.Load())
	}
}

func TestMissingPolicyAllowsAll(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cache := New("test-agent", 5*time.Second)
	if !cache.Allowed(server.URL + "/anything") {
		t.Fatal("expected 404 policy to allow all")
	}
}

func TestUnreachablePolicyFailsClosed(t *testing.T) {
	t.Parallel()

	cache := New("test-agent", 500*time.Millisecond)
	if cache.Allowed("http://127.0.0.1:0/articles/x") {
		t.Fatal("expected unreachable origin to be disallowed")
	}
}

func TestFailureIsNotCached(t *testing.T) {
	t.Parallel()

	var broken atomic.Bool
	broken.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if broken.Load() {
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		w.Write([]byte(policy))
	}))
	defer server.Close()

	cache := New("test-agent", 2*time.Second)
	if cache.Allowed(server.URL + "/articles/x") {
		t.Fatal("expected failure to disallow")
	}
	broken.Store(false)
	if !cache.Allowed(server.URL + "/articles/x") {
		t.Fatal("expected recovery after policy becomes readable")
	}
}

func TestMalformedURLDisallowed(t *testing.T) {
	t.Parallel()

	cache := New("test-agent", time.Second)
	if cache.Allowed("::::") {
		t.Fatal("expected malformed url to be disallowed")
	}
	if cache.Allowed("/relative/only") {
		t.Fatal("expected hostless url to be disallowed")
	}
}
