package ports

import "context"

// ProbeResult is the soft-failing outcome of a HEAD request. StatusCode 0
// means no response was obtained; Size -1 means the length is unknown.
type ProbeResult struct {
	StatusCode  int
	ContentType string
	Size        int64
}

// Responded reports whether the probe got any HTTP response back.
func (p ProbeResult) Responded() bool {
	return p.StatusCode != 0
}

// Fetcher issues throttled HTTP requests. FetchText and Download share one
// pacing clock with Probe; Probe never returns an error.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	Probe(ctx context.Context, url string) ProbeResult
	Download(ctx context.Context, url, destPath, label string) error
}

// PermissionChecker answers whether a URL may be fetched by this agent.
// Implementations fail closed when the policy cannot be read.
type PermissionChecker interface {
	Allowed(url string) bool
}
