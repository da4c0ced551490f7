// Package naming derives filesystem-safe names from URLs and link text.
package naming

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

const maxNameLen = 180

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
var whitespace = regexp.MustCompile(`\s+`)

// SafeFileName normalizes a string to a filesystem-friendly ASCII name.
func SafeFileName(value string) string {
	cleaned := unsafeChars.ReplaceAllString(value, "_")
	cleaned = strings.Trim(cleaned, "._-")
	if cleaned == "" {
		return "unknown"
	}
	if len(cleaned) > maxNameLen {
		cleaned = cleaned[:maxNameLen]
	}
	return cleaned
}

// ArticleSlug derives the archive directory name from an article URL: the
// sanitized final path segment.
func ArticleSlug(articleURL string) string {
	segment := articleURL
	if parsed, err := url.Parse(articleURL); err == nil {
		segment = strings.Trim(parsed.Path, "/")
		if idx := strings.LastIndex(segment, "/"); idx >= 0 {
			segment = segment[idx+1:]
		}
	}
	return SafeFileName(segment)
}

// NormalizeLinkText collapses runs of whitespace to single spaces.
func NormalizeLinkText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// FileNameFromLink builds a target filename for a supplementary resource from
// its human link text, keeping the URL's extension and defaulting to .pdf.
func FileNameFromLink(text, rawURL string) string {
	cleaned := NormalizeLinkText(text)
	var urlPath string
	if parsed, err := url.Parse(rawURL); err == nil {
		urlPath = parsed.Path
	}
	if cleaned == "" {
		cleaned = path.Base(urlPath)
	}
	base := SafeFileName(strings.ReplaceAll(cleaned, " ", "_"))
	ext := path.Ext(urlPath)
	if ext != "" {
		if !strings.HasSuffix(strings.ToLower(base), strings.ToLower(ext)) {
			base += ext
		}
	} else if path.Ext(base) == "" {
		base += ".pdf"
	}
	return base
}
