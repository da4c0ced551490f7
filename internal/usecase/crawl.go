package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ArticleHarvester/internal/config"
	"ArticleHarvester/internal/domain"
	"ArticleHarvester/internal/infrastructure/storage"
	"ArticleHarvester/internal/scanner"
)

// Crawler runs the full per-journal flow: reuse existing archive entries,
// screen listing pages for the shortfall, then acquire the selected
// candidates.
type Crawler struct {
	screener   *Screener
	acquirer   *Acquirer
	archive    *storage.Archive
	registry   *scanner.Registry
	log        *slog.Logger
	perJournal int
}

// NewCrawler wires the crawl flow for a target of perJournal articles each.
func NewCrawler(screener *Screener, acquirer *Acquirer, archive *storage.Archive, registry *scanner.Registry, log *slog.Logger, perJournal int) *Crawler {
	return &Crawler{
		screener:   screener,
		acquirer:   acquirer,
		archive:    archive,
		registry:   registry,
		log:        log,
		perJournal: perJournal,
	}
}

// CrawlJournal collects up to the per-journal target of article records.
// When the archive already holds enough articles for the category, no
// network request is made at all.
func (c *Crawler) CrawlJournal(ctx context.Context, journal config.Journal) ([]domain.ArticleRecord, error) {
	strategy, err := c.registry.Resolve(journal.Scanner)
	if err != nil {
		return nil, fmt.Errorf("journal %s: %w", journal.Slug, err)
	}
	if err := os.MkdirAll(c.archive.CategoryDir(journal.Category), 0o755); err != nil {
		return nil, fmt.Errorf("create category dir: %w", err)
	}

	existingDirs := c.archive.ListExistingArticleDirs(journal.Category)
	existingSlugs := make(map[string]struct{}, len(existingDirs))
	for _, dir := range existingDirs {
		existingSlugs[filepath.Base(dir)] = struct{}{}
	}
	var collected []domain.ArticleRecord
	for _, dir := range existingDirs {
		if len(collected) >= c.perJournal {
			break
		}
		collected = append(collected, c.archive.LoadRecord(dir))
	}
	if len(collected) >= c.perJournal {
		c.log.Info("using existing articles, skipping crawl", "journal", journal.Slug, "count", len(collected))
		return collected, nil
	}
	remaining := c.perJournal - len(collected)

	urlCache := c.archive.LoadURLCache(journal.Slug)
	candidates := c.screener.ScreenJournal(ctx, journal, strategy, remaining, existingSlugs, urlCache)
	if err := c.archive.SaveURLCache(journal.Slug, urlCache); err != nil {
		c.log.Warn("cannot persist url cache", "journal", journal.Slug, "error", err)
	}

	collected = append(collected, c.acquirer.AcquireCandidates(ctx, journal, candidates, remaining)...)
	return collected, nil
}
