package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) ArticleHarvester/1.0"
	journalsPathEnv  = "ARTICLE_HARVESTER_JOURNALS"
	pagePlaceholder  = "{page}"
)

// Options holds the per-run settings supplied on the command line.
type Options struct {
	PerJournal int
	StartYear  int
	EndYear    int
	Delay      time.Duration
	Timeout    time.Duration
	Retries    int
	MaxPages   int
	OutputDir  string
	DryRun     bool
	UserAgent  string
	LogLevel   string
}

// Defaults returns the baseline options; PerJournal must still be set.
func Defaults() Options {
	return Options{
		StartYear: 2023,
		EndYear:   2026,
		Delay:     time.Second,
		Timeout:   30 * time.Second,
		Retries:   3,
		MaxPages:  400,
		OutputDir: "output",
		UserAgent: defaultUserAgent,
		LogLevel:  "info",
	}
}

// Journal describes one crawled journal source. Immutable after load.
type Journal struct {
	Name            string `yaml:"name"`
	Slug            string `yaml:"slug"`
	Category        string `yaml:"category"`
	Scanner         string `yaml:"scanner"`
	ListURLTemplate string `yaml:"listUrlTemplate"`
}

// PageURL expands the listing template for a 1-based page number.
func (j Journal) PageURL(page int) string {
	return strings.ReplaceAll(j.ListURLTemplate, pagePlaceholder, strconv.Itoa(page))
}

// LoadJournals reads journal sources from the YAML file pointed at by
// ARTICLE_HARVESTER_JOURNALS, falling back to the built-in set.
func LoadJournals() []Journal {
	path := os.Getenv(journalsPathEnv)
	if path == "" {
		return defaultJournals()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		return defaultJournals()
	}

	var fileCfg struct {
		Journals []Journal `yaml:"journals"`
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		return defaultJournals()
	}

	journals := make([]Journal, 0, len(fileCfg.Journals))
	for _, journal := range fileCfg.Journals {
		if journal.Slug == "" || journal.ListURLTemplate == "" {
			log.Printf("config: journal %q missing slug or listUrlTemplate, skipped", journal.Name)
			continue
		}
		if journal.Scanner == "" {
			journal.Scanner = "nature"
		}
		journals = append(journals, journal)
	}
	if len(journals) == 0 {
		return defaultJournals()
	}
	return journals
}

func defaultJournals() []Journal {
	return []Journal{
		{
			Name:     "Nature Human Behaviour",
			Slug:     "nathumbehav",
			Category: "social_sci",
			Scanner:  "nature",
			ListURLTemplate: "https://www.nature.com/nathumbehav/research-articles" +
				"?searchType=journalSearch&sort=PubDate&page={page}",
		},
		{
			Name:     "Palgrave Communications",
			Slug:     "palcomms",
			Category: "natural_sci",
			Scanner:  "nature",
			ListURLTemplate: "https://www.nature.com/palcomms/research-articles" +
				"?searchType=journalSearch&sort=PubDate&page={page}",
		},
	}
}
