// Package storage owns the on-disk archive layout: article directories,
// metadata records, the per-journal negative-URL cache, and the summary CSV.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ArticleHarvester/internal/domain"
)

const (
	metadataFileName = "metadata.json"
	summaryFileName  = "summary.csv"

	defaultPDFPath        = "pdf_papers/paper.pdf"
	defaultPeerReviewPath = "supplementary_materials/" + domain.PeerReviewFileName
)

// ArticlePaths is the five-directory layout of one article.
type ArticlePaths struct {
	Root string
	PDF  string
	Code string
	Supp string
	Data string
}

// Archive manages the output directory tree.
type Archive struct {
	baseDir string
}

// NewArchive roots an archive at baseDir.
func NewArchive(baseDir string) *Archive {
	return &Archive{baseDir: baseDir}
}

// BaseDir returns the archive root.
func (a *Archive) BaseDir() string {
	return a.baseDir
}

// CategoryDir returns the directory holding one category's articles.
func (a *Archive) CategoryDir(category string) string {
	return filepath.Join(a.baseDir, category)
}

// ArticleDir returns the directory for one article slug.
func (a *Archive) ArticleDir(category, slug string) string {
	return filepath.Join(a.baseDir, category, slug)
}

// ArticleDirExists reports whether the article directory is already on disk.
func (a *Archive) ArticleDirExists(category, slug string) bool {
	_, err := os.Stat(a.ArticleDir(category, slug))
	return err == nil
}

// EnsureArticleDirs creates the article root and its four artifact dirs.
func (a *Archive) EnsureArticleDirs(category, slug string) (ArticlePaths, error) {
	root := a.ArticleDir(category, slug)
	paths := ArticlePaths{
		Root: root,
		PDF:  filepath.Join(root, "pdf_papers"),
		Code: filepath.Join(root, "code"),
		Supp: filepath.Join(root, "supplementary_materials"),
		Data: filepath.Join(root, "data"),
	}
	for _, dir := range []string{paths.Root, paths.PDF, paths.Code, paths.Supp, paths.Data} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ArticlePaths{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return paths, nil
}

// RemoveArticleDir deletes an article directory tree, best effort. Used only
// to roll back directories created during the current run.
func (a *Archive) RemoveArticleDir(articleDir string) {
	_ = os.RemoveAll(articleDir)
}

// WriteRecord atomically replaces the article's metadata file.
func (a *Archive) WriteRecord(articleDir string, record domain.ArticleRecord) error {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	target := filepath.Join(articleDir, metadataFileName)
	tmp, err := os.CreateTemp(articleDir, metadataFileName+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp metadata: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close metadata: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace metadata: %w", err)
	}
	return nil
}

// ListExistingArticleDirs returns every subdirectory of a category that holds
// a metadata file, sorted. Directory presence with metadata is authoritative
// for "already processed".
func (a *Archive) ListExistingArticleDirs(category string) []string {
	categoryDir := a.CategoryDir(category)
	entries, err := os.ReadDir(categoryDir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(categoryDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, metadataFileName)); err == nil {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// LoadRecord reads one article's metadata, filling forward-compatible
// defaults for records written by older versions.
func (a *Archive) LoadRecord(articleDir string) domain.ArticleRecord {
	var record domain.ArticleRecord
	raw, err := os.ReadFile(filepath.Join(articleDir, metadataFileName))
	if err == nil {
		if err := json.Unmarshal(raw, &record); err != nil {
			record = domain.ArticleRecord{}
		}
	}

	if record.Output.ArticleDir == "" {
		record.Output.ArticleDir = articleDir
	}
	if record.Output.PDF == "" {
		record.Output.PDF = filepath.FromSlash(defaultPDFPath)
	}
	if record.Output.PeerReviewFile == "" {
		record.Output.PeerReviewFile = filepath.FromSlash(defaultPeerReviewPath)
	}
	if record.Output.CodeZip == "" {
		record.Output.CodeZip = findCodeZip(articleDir)
	}
	if record.Category == "" {
		record.Category = filepath.Base(filepath.Dir(articleDir))
	}
	return record
}

// CollectExistingRecords loads every metadata record under the archive root.
func (a *Archive) CollectExistingRecords() []domain.ArticleRecord {
	var records []domain.ArticleRecord
	filepath.WalkDir(a.baseDir, func(dir string, entry os.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return nil
		}
		if _, statErr := os.Stat(filepath.Join(dir, metadataFileName)); statErr == nil {
			records = append(records, a.LoadRecord(dir))
		}
		return nil
	})
	return records
}

func findCodeZip(articleDir string) string {
	entries, err := os.ReadDir(filepath.Join(articleDir, "code"))
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), ".zip") {
			return filepath.Join("code", entry.Name())
		}
	}
	return ""
}

// WriteSummaryCSV writes one row per article whose PDF, peer-review file,
// and code archive all exist on disk.
func (a *Archive) WriteSummaryCSV(records []domain.ArticleRecord) error {
	file, err := os.Create(filepath.Join(a.baseDir, summaryFileName))
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"category", "article_slug", "title", "url", "pdf_path", "review_path", "code_path"}); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	for _, record := range records {
		articleDir := record.Output.ArticleDir
		if articleDir == "" {
			continue
		}
		pdfPath := resolveOutputPath(articleDir, record.Output.PDF, defaultPDFPath)
		reviewPath := resolveOutputPath(articleDir, record.Output.PeerReviewFile, defaultPeerReviewPath)
		codePath := resolveOutputPath(articleDir, record.Output.CodeZip, "")
		if !fileExists(pdfPath) || !fileExists(reviewPath) || !fileExists(codePath) {
			continue
		}
		row := []string{
			record.Category,
			filepath.Base(articleDir),
			record.Title,
			record.URL,
			pdfPath,
			reviewPath,
			codePath,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func resolveOutputPath(articleDir, relative, fallback string) string {
	if relative != "" {
		return filepath.Join(articleDir, filepath.FromSlash(relative))
	}
	if fallback != "" {
		return filepath.Join(articleDir, filepath.FromSlash(fallback))
	}
	return ""
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
