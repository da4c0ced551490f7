// Package usecase implements the screening-first crawl: listing pages are
// screened into candidates with no artifact downloads, then acquisition
// downloads artifacts for the selected candidates only.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ArticleHarvester/internal/config"
	"ArticleHarvester/internal/domain"
	"ArticleHarvester/internal/naming"
	"ArticleHarvester/internal/ports"
	"ArticleHarvester/internal/scanner"
)

// Screener walks listing pages in publication order and selects articles
// that expose a GitHub repository, a direct PDF link, and a peer-review
// supplementary file, all reachable.
type Screener struct {
	fetcher   ports.Fetcher
	robots    ports.PermissionChecker
	log       *slog.Logger
	startYear int
	endYear   int
	maxPages  int
}

// NewScreener builds a screener for the given year window and page limit.
func NewScreener(fetcher ports.Fetcher, robots ports.PermissionChecker, log *slog.Logger, startYear, endYear, maxPages int) *Screener {
	return &Screener{
		fetcher:   fetcher,
		robots:    robots,
		log:       log,
		startYear: startYear,
		endYear:   endYear,
		maxPages:  maxPages,
	}
}

// ScreenJournal returns up to remaining eligible candidates. urlCache maps
// article URLs to permanent rejection reasons and is mutated in place; probe
// failures are not cached so they are re-tried on the next run.
func (s *Screener) ScreenJournal(ctx context.Context, journal config.Journal, strategy scanner.Strategy, remaining int, existingSlugs map[string]struct{}, urlCache map[string]string) []domain.ScreeningResult {
	var candidates []domain.ScreeningResult
	pages := 0

	s.log.Info("screening journal", "journal", journal.Slug)
	for len(candidates) < remaining && pages < s.maxPages {
		pages++
		listURL := journal.PageURL(pages)
		if !s.robots.Allowed(listURL) {
			s.log.Warn("listing page disallowed by robots policy", "url", listURL)
			break
		}
		listingHTML, err := s.fetcher.FetchText(ctx, listURL)
		if err != nil {
			s.log.Error("listing page fetch failed", "url", listURL, "error", err)
			break
		}
		entries := strategy.ParseListing(listingHTML, listURL)
		if len(entries) == 0 {
			break
		}

		stopDueToYear := false
		for _, entry := range entries {
			year := entry.Published.Year()
			if year < s.startYear {
				// Listings are sorted by publication date, so everything
				// after this entry is older still.
				s.log.Info("skipping article", "reason", "before_start_year", "url", entry.URL)
				stopDueToYear = true
				break
			}
			if year > s.endYear {
				s.log.Info("skipping article", "reason", "after_end_year", "url", entry.URL)
				continue
			}
			if len(candidates) >= remaining {
				break
			}
			if reason, cached := urlCache[entry.URL]; cached {
				s.log.Info("skipping article", "reason", "cached:"+reason, "url", entry.URL)
				continue
			}
			if !s.robots.Allowed(entry.URL) {
				s.log.Info("skipping article", "reason", "robots_disallowed", "url", entry.URL)
				urlCache[entry.URL] = "robots_disallowed"
				continue
			}
			if _, exists := existingSlugs[naming.ArticleSlug(entry.URL)]; exists {
				continue
			}
			articleHTML, err := s.fetcher.FetchText(ctx, entry.URL)
			if err != nil {
				s.log.Error("article fetch failed", "url", entry.URL, "error", err)
				continue
			}

			article := strategy.ExtractArticle(journal.Name, journal.Category, entry.URL, articleHTML)
			if len(article.GitHubRepos) == 0 {
				s.log.Info("skipping article", "reason", "missing_github_link", "url", entry.URL)
				urlCache[entry.URL] = "missing_github_link"
				continue
			}
			if article.PDFURL == "" {
				s.log.Info("skipping article", "reason", "missing_pdf_link", "url", entry.URL)
				urlCache[entry.URL] = "missing_pdf_link"
				continue
			}
			review, hasReview := article.PeerReviewResource()
			if !hasReview {
				s.log.Info("skipping article", "reason", "missing_peer_review_file", "url", entry.URL)
				urlCache[entry.URL] = "missing_peer_review_file"
				continue
			}

			pdfStatus, pdfReason := s.screenResource(ctx, article.PDFURL)
			if pdfStatus == domain.StatusUnavailable {
				s.log.Info("skipping article", "reason", "pdf_unavailable", "detail", pdfReason, "url", entry.URL)
				continue
			}
			if pdfStatus == domain.StatusManualRequired {
				s.log.Warn("manual step required", "reason", "robots_disallowed", "kind", "pdf", "url", entry.URL, "resource", article.PDFURL)
			}

			reviewStatus, reviewReason := s.screenResource(ctx, review.URL)
			if reviewStatus == domain.StatusUnavailable {
				s.log.Info("skipping article", "reason", "peer_review_unavailable", "detail", reviewReason, "url", entry.URL)
				continue
			}
			if reviewStatus == domain.StatusManualRequired {
				s.log.Warn("manual step required", "reason", "robots_disallowed", "kind", "peer_review", "url", entry.URL, "resource", review.URL)
			}

			zipURL, codeRepo, codeStatus := s.findWorkingZipURL(ctx, article.GitHubRepos)
			if codeRepo == "" {
				s.log.Info("skipping article", "reason", "github_repo_missing", "url", entry.URL)
				continue
			}
			if codeStatus == domain.StatusManualRequired {
				s.log.Warn("manual step required", "reason", "code_zip_unavailable", "url", entry.URL, "repo", codeRepo)
			}

			candidates = append(candidates, domain.ScreeningResult{
				Article:          article,
				CodeZipURL:       zipURL,
				CodeRepo:         codeRepo,
				PeerReview:       review,
				PDFStatus:        pdfStatus,
				PeerReviewStatus: reviewStatus,
				CodeStatus:       codeStatus,
			})
		}

		if stopDueToYear {
			break
		}
	}

	s.log.Info("screening finished", "journal", journal.Slug, "eligible", len(candidates))
	return candidates
}

// screenResource classifies a single artifact URL without downloading it.
// The robots check runs first; a disallowed URL is never probed.
func (s *Screener) screenResource(ctx context.Context, url string) (domain.ResourceStatus, string) {
	if !s.robots.Allowed(url) {
		return domain.StatusManualRequired, "robots_disallowed"
	}
	probe := s.fetcher.Probe(ctx, url)
	if !probe.Responded() || probe.StatusCode >= 400 {
		return domain.StatusUnavailable, fmt.Sprintf("status=%d", probe.StatusCode)
	}
	if strings.Contains(strings.ToLower(probe.ContentType), "text/html") {
		return domain.StatusUnavailable, "content_type=" + probe.ContentType
	}
	return domain.StatusDownloadable, ""
}

// findWorkingZipURL tries each repository's archive URLs in order and returns
// the first downloadable one. A robots-disallowed archive anywhere in the
// sequence downgrades the whole article's code to manual handling once the
// current repository is exhausted.
func (s *Screener) findWorkingZipURL(ctx context.Context, repos []string) (string, string, domain.ResourceStatus) {
	sawManual := false
	for _, repo := range repos {
		for _, zipURL := range domain.ZipCandidateURLs(repo) {
			status, _ := s.screenResource(ctx, zipURL)
			if status == domain.StatusDownloadable {
				return zipURL, repo, domain.StatusDownloadable
			}
			if status == domain.StatusManualRequired {
				sawManual = true
			}
		}
		if sawManual {
			return "", repo, domain.StatusManualRequired
		}
	}
	if len(repos) > 0 {
		return "", repos[0], domain.StatusManualRequired
	}
	return "", "", domain.StatusManualRequired
}
