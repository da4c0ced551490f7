// Package httpclient implements the throttled HTTP fetcher shared by the
// screening and acquisition engines. Every outbound request, GET or HEAD and
// regardless of host, waits on one pacing clock.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ArticleHarvester/internal/ports"
	"ArticleHarvester/pkg/progress"
)

const downloadChunkSize = 8192

// Fetcher issues rate-limited requests with retry and exponential backoff.
type Fetcher struct {
	client    *http.Client
	userAgent string
	delay     time.Duration
	retries   int
	limiter   *rate.Limiter
	progress  *progress.Reporter
}

var _ ports.Fetcher = (*Fetcher)(nil)

// New wires a fetcher; delay is the minimum inter-request spacing, retries
// the total number of GET attempts.
func New(userAgent string, delay, timeout time.Duration, retries int) *Fetcher {
	if retries < 1 {
		retries = 1
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		delay:     delay,
		retries:   retries,
		limiter:   rate.NewLimiter(limit, 1),
		progress:  progress.NewReporter(nil),
	}
}

// SetProgress replaces the progress reporter (tests pass a buffer).
func (f *Fetcher) SetProgress(reporter *progress.Reporter) {
	if reporter != nil {
		f.progress = reporter
	}
}

// FetchText GETs a page and returns its body as text.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		resp, err := f.get(ctx, url)
		if err == nil && resp.StatusCode < http.StatusBadRequest {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return "", &FetchError{URL: url, Err: readErr}
			}
			return string(body), nil
		}
		lastErr = f.requestFailure(url, resp, err)
		if attempt+1 == f.retries {
			break
		}
		if err := f.backoff(ctx, attempt); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// Probe issues a HEAD request and never fails: transport errors soft-fail to
// a zero status with unknown size.
func (f *Fetcher) Probe(ctx context.Context, url string) ports.ProbeResult {
	result := ports.ProbeResult{Size: -1}
	resp, err := f.do(ctx, http.MethodHead, url)
	if err != nil {
		return result
	}
	defer resp.Body.Close()
	result.StatusCode = resp.StatusCode
	result.ContentType = resp.Header.Get("Content-Type")
	if resp.ContentLength >= 0 {
		result.Size = resp.ContentLength
	}
	return result
}

// Download streams a GET response to destPath. Responses typed text/html are
// rejected unless the destination itself is an HTML file, and no partial file
// survives a failed transfer.
func (f *Fetcher) Download(ctx context.Context, url, destPath, label string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	if label == "" {
		label = filepath.Base(destPath)
	}

	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		resp, err := f.get(ctx, url)
		if err == nil && resp.StatusCode < http.StatusBadRequest {
			// Streaming failures are not retried; the connection already
			// delivered headers and the destination state must stay clean.
			return f.stream(ctx, resp, url, destPath, label)
		}
		lastErr = f.requestFailure(url, resp, err)
		if attempt+1 == f.retries {
			break
		}
		if err := f.backoff(ctx, attempt); err != nil {
			return err
		}
	}
	return lastErr
}

func (f *Fetcher) stream(ctx context.Context, resp *http.Response, url, destPath, label string) error {
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(destPath))
	if isHTMLContent(contentType) && ext != ".html" && ext != ".htm" {
		return &FetchError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("%w: %s for %s", ErrUnexpectedContentType, contentType, destPath)}
	}

	total := resp.ContentLength
	if total <= 0 {
		total = f.headContentLength(ctx, url)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	task := f.progress.StartTask(label, total)
	buf := make([]byte, downloadChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				task.Abort()
				file.Close()
				os.Remove(destPath)
				return fmt.Errorf("write %s: %w", destPath, writeErr)
			}
			task.Add(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			task.Abort()
			file.Close()
			os.Remove(destPath)
			return &FetchError{URL: url, Err: readErr}
		}
	}
	if err := file.Close(); err != nil {
		os.Remove(destPath)
		return fmt.Errorf("close %s: %w", destPath, err)
	}
	task.Done()
	return nil
}

// headContentLength supplies an expected total for progress display only.
func (f *Fetcher) headContentLength(ctx context.Context, url string) int64 {
	resp, err := f.do(ctx, http.MethodHead, url)
	if err != nil {
		return -1
	}
	defer resp.Body.Close()
	return resp.ContentLength
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	return f.do(ctx, http.MethodGet, url)
}

func (f *Fetcher) do(ctx context.Context, method, url string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	return f.client.Do(req)
}

func (f *Fetcher) requestFailure(url string, resp *http.Response, err error) error {
	if err != nil {
		return &FetchError{URL: url, Err: err}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return &FetchError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("http %s", resp.Status)}
}

func (f *Fetcher) backoff(ctx context.Context, attempt int) error {
	timer := time.NewTimer(f.delay * (1 << attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isHTMLContent(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}
