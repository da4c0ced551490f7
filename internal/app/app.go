// Package app assembles the harvester from its components and runs the crawl.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"ArticleHarvester/internal/config"
	"ArticleHarvester/internal/domain"
	"ArticleHarvester/internal/infrastructure/httpclient"
	"ArticleHarvester/internal/infrastructure/parser"
	"ArticleHarvester/internal/infrastructure/robots"
	"ArticleHarvester/internal/infrastructure/storage"
	"ArticleHarvester/internal/logging"
	"ArticleHarvester/internal/scanner"
	"ArticleHarvester/internal/usecase"
)

// App holds the per-run configuration and logger.
type App struct {
	opts config.Options
	log  *slog.Logger
}

// New builds the application for one run.
func New(opts config.Options) *App {
	return &App{opts: opts, log: logging.New(opts.LogLevel)}
}

// Run crawls every configured journal and writes the merged summary CSV.
// Journal failures are logged and do not stop the remaining journals.
func (a *App) Run(ctx context.Context) error {
	journals := config.LoadJournals()

	fetcher := httpclient.New(a.opts.UserAgent, a.opts.Delay, a.opts.Timeout, a.opts.Retries)
	policy := robots.New(a.opts.UserAgent, a.opts.Timeout)
	archive := storage.NewArchive(a.opts.OutputDir)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewNatureStrategy())

	screener := usecase.NewScreener(fetcher, policy, a.log, a.opts.StartYear, a.opts.EndYear, a.opts.MaxPages)
	acquirer := usecase.NewAcquirer(fetcher, policy, archive, a.log, a.opts.DryRun)
	crawler := usecase.NewCrawler(screener, acquirer, archive, registry, a.log, a.opts.PerJournal)

	// Records are merged per article directory so reruns and overlapping
	// journals never produce duplicate summary rows.
	merged := map[string]domain.ArticleRecord{}
	var order []string
	add := func(record domain.ArticleRecord) {
		dir := record.Output.ArticleDir
		if dir == "" {
			return
		}
		if _, known := merged[dir]; !known {
			order = append(order, dir)
		}
		merged[dir] = record
	}
	for _, record := range archive.CollectExistingRecords() {
		add(record)
	}

	total := 0
	for _, journal := range journals {
		a.log.Info("crawling journal", "name", journal.Name, "category", journal.Category)
		records, err := crawler.CrawlJournal(ctx, journal)
		if err != nil {
			a.log.Error("journal crawl failed", "journal", journal.Slug, "error", err)
			continue
		}
		a.log.Info("journal finished", "journal", journal.Slug, "records", len(records))
		total += len(records)
		for _, record := range records {
			add(record)
		}
	}
	a.log.Info("crawl finished", "total", total)

	final := make([]domain.ArticleRecord, 0, len(order))
	for _, dir := range order {
		final = append(final, merged[dir])
	}
	if err := archive.WriteSummaryCSV(final); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
