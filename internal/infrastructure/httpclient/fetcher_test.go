package httpclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"ArticleHarvester/pkg/progress"
)

func newTestFetcher(timeout time.Duration) *Fetcher {
	f := New("test-agent", 0, timeout, 3)
	f.SetProgress(progress.NewReporter(&bytes.Buffer{}))
	return f
}

func TestFetchTextRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(5 * time.Second)
	body, err := fetcher.FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchText error: %v", err)
	}
	if body != "payload" {
		t.Fatalf("unexpected body: %q", body)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchTextExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := newTestFetcher(5 * time.Second)
	_, err := fetcher.FetchText(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.Status != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", fetchErr.Status)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchTextSetsUserAgent(t *testing.T) {
	t.Parallel()

	var agent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.Header.Get("User-Agent"))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(5 * time.Second)
	if _, err := fetcher.FetchText(context.Background(), server.URL); err != nil {
		t.Fatalf("FetchText error: %v", err)
	}
	if got, _ := agent.Load().(string); got != "test-agent" {
		t.Fatalf("unexpected user agent: %q", got)
	}
}

func TestProbeSoftFails(t *testing.T) {
	t.Parallel()

	fetcher := newTestFetcher(500 * time.Millisecond)
	result := fetcher.Probe(context.Background(), "http://127.0.0.1:0/unreachable")
	if result.Responded() {
		t.Fatal("expected no response")
	}
	if result.Size != -1 {
		t.Fatalf("expected unknown size, got %d", result.Size)
	}
}

func TestProbeReportsHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", "42")
	}))
	defer server.Close()

	fetcher := newTestFetcher(5 * time.Second)
	result := fetcher.Probe(context.Background(), server.URL)
	if result.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", result.StatusCode)
	}
	if result.ContentType != "application/pdf" {
		t.Fatalf("unexpected content type: %s", result.ContentType)
	}
	if result.Size != 42 {
		t.Fatalf("unexpected size: %d", result.Size)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("x"), 20000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "paper.pdf")
	fetcher := newTestFetcher(5 * time.Second)
	if err := fetcher.Download(context.Background(), server.URL, dest, "paper.pdf"); err != nil {
		t.Fatalf("Download error: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("downloaded %d bytes, want %d", len(data), len(payload))
	}
}

func TestDownloadRejectsHTMLLeavesNoFile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>login wall</html>"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "paper.pdf")
	fetcher := newTestFetcher(5 * time.Second)
	err := fetcher.Download(context.Background(), server.URL, dest, "paper.pdf")
	if !errors.Is(err, ErrUnexpectedContentType) {
		t.Fatalf("expected ErrUnexpectedContentType, got %v", err)
	}
	if _, statErr := os.Stat(dest); statErr == nil {
		t.Fatal("partial file left behind")
	}
}

func TestDownloadAllowsHTMLDestination(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>page</html>"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "page.html")
	fetcher := newTestFetcher(5 * time.Second)
	if err := fetcher.Download(context.Background(), server.URL, dest, ""); err != nil {
		t.Fatalf("Download error: %v", err)
	}
}

func TestPacingDelaysSecondRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	fetcher := New("test-agent", 100*time.Millisecond, 5*time.Second, 1)
	fetcher.SetProgress(progress.NewReporter(&bytes.Buffer{}))

	start := time.Now()
	for i := 0; i < 2; i++ {
		if _, err := fetcher.FetchText(context.Background(), server.URL); err != nil {
			t.Fatalf("FetchText error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("second request not paced: %v", elapsed)
	}
}
