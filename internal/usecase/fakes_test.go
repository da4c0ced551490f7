package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ArticleHarvester/internal/domain"
	"ArticleHarvester/internal/ports"
	"ArticleHarvester/internal/scanner"
)

// fakeFetcher serves canned pages and probe results, records every request,
// and writes downloads to disk so acquisition tests exercise real paths.
type fakeFetcher struct {
	pages     map[string]string
	textErrs  map[string]error
	probes    map[string]ports.ProbeResult
	downloads map[string]error
	requests  []string
}

var _ ports.Fetcher = (*fakeFetcher)(nil)

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:     map[string]string{},
		textErrs:  map[string]error{},
		probes:    map[string]ports.ProbeResult{},
		downloads: map[string]error{},
	}
}

func (f *fakeFetcher) FetchText(_ context.Context, url string) (string, error) {
	f.requests = append(f.requests, "GET "+url)
	if err, failed := f.textErrs[url]; failed {
		return "", err
	}
	if html, served := f.pages[url]; served {
		return html, nil
	}
	return "", fmt.Errorf("no page registered for %s", url)
}

func (f *fakeFetcher) Probe(_ context.Context, url string) ports.ProbeResult {
	f.requests = append(f.requests, "HEAD "+url)
	if result, known := f.probes[url]; known {
		return result
	}
	return ports.ProbeResult{StatusCode: 200, ContentType: "application/pdf", Size: 10}
}

func (f *fakeFetcher) Download(_ context.Context, url, destPath, _ string) error {
	f.requests = append(f.requests, "DL "+url)
	if err, failed := f.downloads[url]; failed && err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte("payload"), 0o644)
}

func (f *fakeFetcher) downloaded(url string) bool {
	for _, req := range f.requests {
		if req == "DL "+url {
			return true
		}
	}
	return false
}

type fakeRobots struct {
	disallowed map[string]bool
}

var _ ports.PermissionChecker = (*fakeRobots)(nil)

func (r *fakeRobots) Allowed(url string) bool {
	return !r.disallowed[url]
}

// fakeStrategy keys listings and article pages by URL, ignoring the HTML.
type fakeStrategy struct {
	listings map[string][]scanner.Entry
	articles map[string]domain.ArticleCandidate
}

var _ scanner.Strategy = (*fakeStrategy)(nil)

func (s *fakeStrategy) Name() string {
	return "fake"
}

func (s *fakeStrategy) ParseListing(_, listURL string) []scanner.Entry {
	return s.listings[listURL]
}

func (s *fakeStrategy) ExtractArticle(journalName, category, pageURL, _ string) domain.ArticleCandidate {
	article := s.articles[pageURL]
	article.Journal = journalName
	article.Category = category
	article.URL = pageURL
	return article
}
