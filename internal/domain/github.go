package domain

import (
	"net/url"
	"strings"
)

const codeloadBase = "https://codeload.github.com"

// NormalizeRepoURL reduces any github.com link to its canonical
// https://github.com/{owner}/{repo} form. Returns false for links that do not
// point at a repository.
func NormalizeRepoURL(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(parsed.Host)
	if host != "github.com" && host != "www.github.com" {
		return "", false
	}
	owner, repo, ok := splitOwnerRepo(parsed.Path)
	if !ok {
		return "", false
	}
	repo = strings.TrimSuffix(repo, ".git")
	return "https://github.com/" + owner + "/" + repo, true
}

// ZipCandidateURLs returns the archive URLs to try for a repository, in the
// fixed order HEAD, main, master. Empty for malformed repo URLs.
func ZipCandidateURLs(repoURL string) []string {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return nil
	}
	owner, repo, ok := splitOwnerRepo(parsed.Path)
	if !ok {
		return nil
	}
	prefix := codeloadBase + "/" + owner + "/" + repo + "/zip/"
	return []string{
		prefix + "HEAD",
		prefix + "refs/heads/main",
		prefix + "refs/heads/master",
	}
}

// RepoName returns the final path segment of a repository URL.
func RepoName(repoURL string) string {
	trimmed := strings.TrimRight(repoURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if trimmed == "" {
		return "code"
	}
	return trimmed
}

func splitOwnerRepo(path string) (string, string, bool) {
	var parts []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
