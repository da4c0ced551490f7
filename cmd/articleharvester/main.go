package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ArticleHarvester/internal/app"
	"ArticleHarvester/internal/config"
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(opts).Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (config.Options, error) {
	defaults := config.Defaults()
	flags := flag.NewFlagSet("articleharvester", flag.ContinueOnError)

	n := flags.Int("n", 0, "number of papers per category/journal (required)")
	startYear := flags.Int("start-year", defaults.StartYear, "oldest publication year to accept")
	endYear := flags.Int("end-year", defaults.EndYear, "newest publication year to accept")
	delay := flags.Float64("delay", defaults.Delay.Seconds(), "delay between requests in seconds")
	timeout := flags.Int("timeout", int(defaults.Timeout.Seconds()), "per-request timeout in seconds")
	retries := flags.Int("retries", defaults.Retries, "GET attempts per request")
	maxPages := flags.Int("max-pages", defaults.MaxPages, "listing pages to scan per journal")
	outputDir := flags.String("output-dir", defaults.OutputDir, "archive root directory")
	dryRun := flags.Bool("dry-run", false, "skip downloads; only collect metadata")
	userAgent := flags.String("user-agent", defaults.UserAgent, "User-Agent header for all requests")
	logLevel := flags.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")

	if err := flags.Parse(args); err != nil {
		return config.Options{}, err
	}
	if *n <= 0 {
		return config.Options{}, fmt.Errorf("flag -n is required and must be positive")
	}

	opts := defaults
	opts.PerJournal = *n
	opts.StartYear = *startYear
	opts.EndYear = *endYear
	opts.Delay = time.Duration(*delay * float64(time.Second))
	opts.Timeout = time.Duration(*timeout) * time.Second
	opts.Retries = *retries
	opts.MaxPages = *maxPages
	opts.OutputDir = *outputDir
	opts.DryRun = *dryRun
	opts.UserAgent = *userAgent
	opts.LogLevel = *logLevel
	return opts, nil
}
