package usecase

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"ArticleHarvester/internal/config"
	"ArticleHarvester/internal/domain"
	"ArticleHarvester/internal/infrastructure/storage"
	"ArticleHarvester/internal/naming"
	"ArticleHarvester/internal/ports"
)

// Acquirer downloads the artifacts of screened candidates into the archive
// and writes one metadata record per processed article.
type Acquirer struct {
	fetcher ports.Fetcher
	robots  ports.PermissionChecker
	archive *storage.Archive
	log     *slog.Logger
	dryRun  bool
}

// NewAcquirer builds an acquirer. In dry-run mode no files are downloaded
// but metadata records are still written.
func NewAcquirer(fetcher ports.Fetcher, robots ports.PermissionChecker, archive *storage.Archive, log *slog.Logger, dryRun bool) *Acquirer {
	return &Acquirer{
		fetcher: fetcher,
		robots:  robots,
		archive: archive,
		log:     log,
		dryRun:  dryRun,
	}
}

// AcquireCandidates processes candidates in screening order until limit
// records were produced. Candidates whose mandatory artifacts fail to
// download are rolled back and skipped without counting against the limit.
func (a *Acquirer) AcquireCandidates(ctx context.Context, journal config.Journal, candidates []domain.ScreeningResult, limit int) []domain.ArticleRecord {
	var records []domain.ArticleRecord
	for _, result := range candidates {
		if len(records) >= limit {
			break
		}
		record, ok := a.acquireOne(ctx, journal, result)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records
}

func (a *Acquirer) acquireOne(ctx context.Context, journal config.Journal, result domain.ScreeningResult) (domain.ArticleRecord, bool) {
	article := result.Article
	slug := naming.ArticleSlug(article.URL)

	// Existence must be checked before the directories are created, so a
	// failed article only rolls back directories this run introduced.
	dirExisted := a.archive.ArticleDirExists(journal.Category, slug)
	paths, err := a.archive.EnsureArticleDirs(journal.Category, slug)
	if err != nil {
		a.log.Error("cannot create article directories", "slug", slug, "error", err)
		return domain.ArticleRecord{}, false
	}

	pdfDest := filepath.Join(paths.PDF, "paper.pdf")
	reviewName := result.PeerReview.Filename

	codeZipPath := ""
	var suppPaths, dataPaths []string
	peerReviewPath := ""
	var manualRequired []string

	pdfStatus := result.PDFStatus
	reviewStatus := result.PeerReviewStatus
	codeStatus := result.CodeStatus

	reviewExpected := filepath.Join(paths.Supp, reviewName)
	if fileExists(reviewExpected) {
		peerReviewPath = reviewExpected
		reviewStatus = domain.StatusPresent
	} else if reviewStatus == domain.StatusManualRequired {
		manualRequired = append(manualRequired, "peer_review")
	}

	if !a.dryRun {
		switch {
		case fileExists(pdfDest):
			pdfStatus = domain.StatusPresent
		case pdfStatus == domain.StatusDownloadable:
			if a.robots.Allowed(article.PDFURL) {
				if err := a.fetcher.Download(ctx, article.PDFURL, pdfDest, slug+" paper.pdf"); err != nil {
					a.log.Error("pdf download failed", "url", article.PDFURL, "error", err)
					a.rollback(paths.Root, dirExisted)
					return domain.ArticleRecord{}, false
				}
				pdfStatus = domain.StatusDownloaded
			} else {
				pdfStatus = domain.StatusManualRequired
				manualRequired = append(manualRequired, "pdf")
				a.log.Warn("manual step required", "reason", "robots_disallowed", "kind", "pdf", "url", article.URL, "resource", article.PDFURL)
			}
		default:
			manualRequired = append(manualRequired, "pdf")
			a.log.Warn("manual step required", "kind", "pdf", "url", article.URL, "resource", article.PDFURL)
		}

		zipName := naming.SafeFileName(domain.RepoName(result.CodeRepo)) + ".zip"
		codeZipPath = filepath.Join(paths.Code, zipName)
		switch {
		case fileExists(codeZipPath):
			codeStatus = domain.StatusPresent
		case codeStatus == domain.StatusDownloadable && result.CodeZipURL != "":
			if err := a.fetcher.Download(ctx, result.CodeZipURL, codeZipPath, slug+" "+zipName); err != nil {
				a.log.Error("code archive download failed", "repo", result.CodeRepo, "error", err)
				a.rollback(paths.Root, dirExisted)
				return domain.ArticleRecord{}, false
			}
			codeStatus = domain.StatusDownloaded
		default:
			codeStatus = domain.StatusManualRequired
			manualRequired = append(manualRequired, "code")
			a.log.Warn("manual step required", "kind", "code", "url", article.URL, "repo", result.CodeRepo)
		}

		for _, resource := range article.Resources {
			if resource.Category == domain.CategoryPeerReview && reviewStatus != domain.StatusDownloadable {
				continue
			}
			if !a.robots.Allowed(resource.URL) {
				manualRequired = append(manualRequired, string(resource.Category))
				continue
			}
			targetDir := paths.Supp
			if resource.Category == domain.CategoryData {
				targetDir = paths.Data
			}
			dest := filepath.Join(targetDir, resource.Filename)
			if !fileExists(dest) {
				if err := a.fetcher.Download(ctx, resource.URL, dest, slug+" "+resource.Filename); err != nil {
					// Non-mandatory resources fail individually.
					a.log.Error("resource download failed", "filename", resource.Filename, "url", resource.URL, "error", err)
					continue
				}
			}
			switch {
			case resource.Category == domain.CategoryData:
				dataPaths = append(dataPaths, dest)
			case resource.Category == domain.CategoryPeerReview && resource.Filename == domain.PeerReviewFileName:
				peerReviewPath = dest
				suppPaths = append(suppPaths, dest)
			default:
				suppPaths = append(suppPaths, dest)
			}
		}

		if peerReviewPath == "" && reviewStatus != domain.StatusManualRequired {
			a.log.Error("peer review file missing after downloads", "url", article.URL)
			a.rollback(paths.Root, dirExisted)
			return domain.ArticleRecord{}, false
		}
	}

	record := a.buildRecord(article, result.CodeRepo, pdfStatus, reviewStatus, codeStatus,
		manualRequired, paths.Root, codeZipPath, suppPaths, dataPaths, peerReviewPath, reviewName)
	if err := a.archive.WriteRecord(paths.Root, record); err != nil {
		a.log.Error("metadata write failed", "slug", slug, "error", err)
	}
	return record, true
}

func (a *Acquirer) rollback(articleDir string, dirExisted bool) {
	if !dirExisted {
		a.archive.RemoveArticleDir(articleDir)
	}
}

func (a *Acquirer) buildRecord(article domain.ArticleCandidate, usedRepo string,
	pdfStatus, reviewStatus, codeStatus domain.ResourceStatus, manualRequired []string,
	articleDir, codeZipPath string, suppPaths, dataPaths []string, peerReviewPath, peerReviewName string) domain.ArticleRecord {

	esmMapping := make(map[string]string, len(article.Resources))
	esmItems := make([]domain.ESMItem, 0, len(article.Resources))
	for _, resource := range article.Resources {
		esmMapping[resource.URL] = resource.Filename
		esmItems = append(esmItems, domain.ESMItem{
			URL:      resource.URL,
			LinkText: resource.LinkText,
			Filename: resource.Filename,
			Category: string(resource.Category),
		})
	}

	output := domain.OutputPaths{
		ArticleDir:         articleDir,
		SupplementaryFiles: []string{},
		DataFiles:          []string{},
	}
	if !a.dryRun {
		output.PDF = filepath.Join("pdf_papers", "paper.pdf")
		if codeZipPath != "" {
			output.CodeZip = filepath.Join("code", filepath.Base(codeZipPath))
		}
		for _, p := range suppPaths {
			output.SupplementaryFiles = append(output.SupplementaryFiles, filepath.Join("supplementary_materials", filepath.Base(p)))
		}
		for _, p := range dataPaths {
			output.DataFiles = append(output.DataFiles, filepath.Join("data", filepath.Base(p)))
		}
	}
	// The peer-review mapping survives dry-run: the expected location is
	// known even before anything is fetched.
	if peerReviewPath != "" || peerReviewName != "" {
		name := peerReviewName
		if peerReviewPath != "" {
			name = filepath.Base(peerReviewPath)
		}
		output.PeerReviewFile = filepath.Join("supplementary_materials", name)
	}

	return domain.ArticleRecord{
		Journal:        article.Journal,
		Category:       article.Category,
		Title:          article.Title,
		URL:            article.URL,
		PublishedDate:  article.PublishedDate,
		DOI:            article.DOI,
		GitHubRepos:    article.GitHubRepos,
		UsedGitHubRepo: usedRepo,
		PDFURL:         article.PDFURL,
		Status: domain.StatusSet{
			PDF:        pdfStatus,
			PeerReview: reviewStatus,
			Code:       codeStatus,
		},
		ManualRequired: sortedUnique(manualRequired),
		Output:         output,
		ESMMapping:     esmMapping,
		ESMResources:   esmItems,
	}
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		unique = append(unique, value)
	}
	sort.Strings(unique)
	return unique
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
