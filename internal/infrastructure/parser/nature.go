// Package parser implements listing and article page extraction strategies.
package parser

import (
	"encoding/json"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ArticleHarvester/internal/domain"
	"ArticleHarvester/internal/naming"
	"ArticleHarvester/internal/scanner"
)

const esmHost = "static-content.springer.com"

var githubLinkExpr = regexp.MustCompile(`https?://github\.com/[\w.-]+/[\w.-]+(?:/[^\s<>()"]*)?`)

var dateLayouts = []string{"2006-01-02", "2 Jan 2006", "2006/01/02", time.RFC3339, "2006-01-02T15:04:05"}

// NatureStrategy extracts candidates from Nature-family journal pages.
type NatureStrategy struct{}

var _ scanner.Strategy = (*NatureStrategy)(nil)

// NewNatureStrategy returns the Nature listing/article extractor.
func NewNatureStrategy() *NatureStrategy {
	return &NatureStrategy{}
}

// Name identifies the strategy inside the registry.
func (n *NatureStrategy) Name() string {
	return "nature"
}

// ParseListing returns (article URL, publication date) pairs in document
// order. Cards without a link or a parseable date are dropped.
func (n *NatureStrategy) ParseListing(html, listURL string) []scanner.Entry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var entries []scanner.Entry
	doc.Find("article.c-card").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("a.c-card__link").First()
		timeTag := card.Find("time").First()
		href, exists := link.Attr("href")
		if !exists || timeTag.Length() == 0 {
			return
		}
		dateValue, ok := timeTag.Attr("datetime")
		if !ok || dateValue == "" {
			dateValue = strings.TrimSpace(timeTag.Text())
		}
		published, ok := ParseDate(dateValue)
		if !ok {
			return
		}
		entries = append(entries, scanner.Entry{
			URL:       resolveURL(listURL, href),
			Published: published,
		})
	})
	return entries
}

// ExtractArticle pulls the title, dates, DOI, PDF link, GitHub repositories,
// and supplementary resources out of one article page.
func (n *NatureStrategy) ExtractArticle(journalName, category, pageURL, html string) domain.ArticleCandidate {
	candidate := domain.ArticleCandidate{
		Journal:  journalName,
		Category: category,
		URL:      pageURL,
		Title:    "unknown",
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return candidate
	}

	if title, ok := doc.Find(`meta[name="dc.title"]`).First().Attr("content"); ok && title != "" {
		candidate.Title = title
	} else if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		candidate.Title = h1
	}

	published, doi := jsonLDMetadata(doc)
	if published == "" {
		published, _ = doc.Find(`meta[name="citation_online_date"]`).First().Attr("content")
	}
	candidate.PublishedDate = published
	candidate.DOI = doi

	candidate.PDFURL = extractPDFURL(doc, pageURL)
	candidate.GitHubRepos = extractGitHubRepos(doc)
	candidate.Resources = extractESMResources(doc, pageURL)
	return candidate
}

// ParseDate accepts the date formats seen on Nature listings.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// jsonLDMetadata reads datePublished and the DOI from the first scholarly
// JSON-LD block. The identifier may be a plain string or a {value} object.
func jsonLDMetadata(doc *goquery.Document) (string, string) {
	var published, doi string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(script.Text()), &raw); err != nil {
			return true
		}
		item := scholarlyItem(raw)
		if item == nil {
			return true
		}
		if value, ok := item["datePublished"].(string); ok {
			published = value
		}
		switch ident := item["identifier"].(type) {
		case string:
			doi = ident
		case map[string]any:
			if value, ok := ident["value"].(string); ok {
				doi = value
			}
		}
		return false
	})
	return published, doi
}

func scholarlyItem(raw any) map[string]any {
	switch value := raw.(type) {
	case map[string]any:
		if t, _ := value["@type"].(string); t == "ScholarlyArticle" || t == "Article" {
			return value
		}
	case []any:
		for _, entry := range value {
			if item := scholarlyItem(entry); item != nil {
				return item
			}
		}
	}
	return nil
}

func extractPDFURL(doc *goquery.Document, pageURL string) string {
	if content, ok := doc.Find(`meta[name="citation_pdf_url"]`).First().Attr("content"); ok && content != "" {
		if strings.HasPrefix(content, "http") {
			return content
		}
		return resolveURL(pageURL, content)
	}

	var pdfURL string
	doc.Find("a[href]").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, _ := anchor.Attr("href")
		if href == "" {
			return true
		}
		text := strings.ToLower(naming.NormalizeLinkText(anchor.Text()))
		lowered := strings.ToLower(href)
		if strings.Contains(text, "download pdf") ||
			(strings.HasSuffix(lowered, ".pdf") && !strings.Contains(lowered, "supplementary")) {
			pdfURL = resolveURL(pageURL, href)
			return false
		}
		return true
	})
	return pdfURL
}

// extractGitHubRepos prefers links inside the "Code availability" section
// when the page has one; an empty section means the article declares no code.
func extractGitHubRepos(doc *goquery.Document) []string {
	scope := doc.Selection
	scoped := false
	doc.Find("h2, h3").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(heading.Text()), "code availability") {
			if parent := heading.Parent(); parent.Length() > 0 {
				scope = parent
				scoped = true
				return false
			}
		}
		return true
	})

	var links []string
	scope.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		if href, _ := anchor.Attr("href"); strings.Contains(href, "github.com") {
			links = append(links, href)
		}
	})
	links = append(links, githubLinkExpr.FindAllString(scope.Text(), -1)...)
	if scoped && len(links) == 0 {
		return nil
	}

	var repos []string
	seen := map[string]struct{}{}
	for _, link := range links {
		repo, ok := domain.NormalizeRepoURL(link)
		if !ok {
			continue
		}
		if _, dup := seen[repo]; dup {
			continue
		}
		seen[repo] = struct{}{}
		repos = append(repos, repo)
	}
	return repos
}

func extractESMResources(doc *goquery.Document, pageURL string) []domain.SupplementaryResource {
	var resources []domain.SupplementaryResource
	seenURLs := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href, _ := anchor.Attr("href")
		if href == "" {
			return
		}
		full := resolveURL(pageURL, href)
		if !strings.HasPrefix(full, "http") {
			return
		}
		parsed, err := url.Parse(full)
		if err != nil || !strings.EqualFold(parsed.Host, esmHost) {
			return
		}
		if path.Ext(parsed.Path) == "" {
			return
		}
		if _, dup := seenURLs[full]; dup {
			return
		}
		linkText := naming.NormalizeLinkText(anchor.Text())
		if linkText == "" {
			return
		}

		category := inferCategory(linkText)
		filename := naming.FileNameFromLink(linkText, full)
		if category == domain.CategoryPeerReview {
			filename = domain.PeerReviewFileName
		}
		resources = append(resources, domain.SupplementaryResource{
			URL:      full,
			LinkText: linkText,
			Filename: filename,
			Category: category,
		})
		seenURLs[full] = struct{}{}
	})

	resolveFilenameCollisions(resources)
	return resources
}

func inferCategory(text string) domain.ResourceCategory {
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "peer review") || strings.Contains(lowered, "peer-review") {
		return domain.CategoryPeerReview
	}
	if strings.Contains(lowered, "data") {
		return domain.CategoryData
	}
	return domain.CategorySupplementary
}

// resolveFilenameCollisions suffixes duplicates with _2, _3, ... so every
// filename within one article is unique.
func resolveFilenameCollisions(resources []domain.SupplementaryResource) {
	used := map[string]struct{}{}
	for i := range resources {
		filename := resources[i].Filename
		if _, taken := used[filename]; taken {
			ext := path.Ext(filename)
			base := strings.TrimSuffix(filename, ext)
			for counter := 2; ; counter++ {
				candidate := base + "_" + strconv.Itoa(counter) + ext
				if _, clash := used[candidate]; !clash {
					filename = candidate
					break
				}
			}
			resources[i].Filename = filename
		}
		used[filename] = struct{}{}
	}
}

func resolveURL(base, href string) string {
	baseParsed, err := url.Parse(base)
	if err != nil {
		return href
	}
	refParsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseParsed.ResolveReference(refParsed).String()
}
