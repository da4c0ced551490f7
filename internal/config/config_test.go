package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	opts := Defaults()
	if opts.StartYear != 2023 || opts.EndYear != 2026 {
		t.Fatalf("unexpected year window: %d-%d", opts.StartYear, opts.EndYear)
	}
	if opts.Retries != 3 || opts.MaxPages != 400 {
		t.Fatalf("unexpected retries/pages: %d/%d", opts.Retries, opts.MaxPages)
	}
	if opts.PerJournal != 0 {
		t.Fatalf("PerJournal must stay unset in defaults, got %d", opts.PerJournal)
	}
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	journal := Journal{ListURLTemplate: "https://www.nature.com/nathumbehav/research-articles?page={page}"}
	got := journal.PageURL(7)
	if got != "https://www.nature.com/nathumbehav/research-articles?page=7" {
		t.Fatalf("unexpected page url: %s", got)
	}
}

func TestLoadJournalsDefaults(t *testing.T) {
	t.Setenv(journalsPathEnv, "")

	journals := LoadJournals()
	if len(journals) != 2 {
		t.Fatalf("expected 2 default journals, got %d", len(journals))
	}
	if journals[0].Slug != "nathumbehav" || journals[0].Category != "social_sci" {
		t.Fatalf("unexpected first journal: %+v", journals[0])
	}
	if journals[1].Slug != "palcomms" || journals[1].Category != "natural_sci" {
		t.Fatalf("unexpected second journal: %+v", journals[1])
	}
}

func TestLoadJournalsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journals.yaml")
	raw := `
journals:
  - name: Test Journal
    slug: testjournal
    category: test_cat
    listUrlTemplate: "https://example.org/list?page={page}"
  - name: Broken
    slug: ""
    listUrlTemplate: "https://example.org/broken?page={page}"
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write journals file: %v", err)
	}
	t.Setenv(journalsPathEnv, path)

	journals := LoadJournals()
	if len(journals) != 1 {
		t.Fatalf("expected 1 valid journal, got %d", len(journals))
	}
	if journals[0].Slug != "testjournal" {
		t.Fatalf("unexpected slug: %s", journals[0].Slug)
	}
	if journals[0].Scanner != "nature" {
		t.Fatalf("scanner not defaulted: %s", journals[0].Scanner)
	}
}

func TestLoadJournalsUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(journalsPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	journals := LoadJournals()
	if len(journals) != 2 {
		t.Fatalf("expected default journals on unreadable file, got %d", len(journals))
	}
}
