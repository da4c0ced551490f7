package domain

import "testing"

func TestNormalizeRepoURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://github.com/owner/repo", "https://github.com/owner/repo", true},
		{"https://www.github.com/owner/repo.git", "https://github.com/owner/repo", true},
		{"https://github.com/owner/repo/tree/main/src", "https://github.com/owner/repo", true},
		{"https://gitlab.com/owner/repo", "", false},
		{"https://github.com/owner", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeRepoURL(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("NormalizeRepoURL(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeRepoURLIdempotent(t *testing.T) {
	t.Parallel()

	first, ok := NormalizeRepoURL("https://www.github.com/owner/repo.git")
	if !ok {
		t.Fatal("first normalization failed")
	}
	second, ok := NormalizeRepoURL(first)
	if !ok || second != first {
		t.Fatalf("normalization is not idempotent: %q -> %q", first, second)
	}
}

func TestZipCandidateURLs(t *testing.T) {
	t.Parallel()

	urls := ZipCandidateURLs("https://github.com/owner/repo")
	want := []string{
		"https://codeload.github.com/owner/repo/zip/HEAD",
		"https://codeload.github.com/owner/repo/zip/refs/heads/main",
		"https://codeload.github.com/owner/repo/zip/refs/heads/master",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d urls, got %d", len(want), len(urls))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("url %d = %q, want %q", i, urls[i], want[i])
		}
	}

	if got := ZipCandidateURLs("https://github.com/owner"); got != nil {
		t.Fatalf("expected nil for malformed repo, got %v", got)
	}
}

func TestRepoName(t *testing.T) {
	t.Parallel()

	if got := RepoName("https://github.com/owner/repo"); got != "repo" {
		t.Fatalf("unexpected repo name: %s", got)
	}
	if got := RepoName("https://github.com/owner/repo/"); got != "repo" {
		t.Fatalf("unexpected repo name with slash: %s", got)
	}
	if got := RepoName(""); got != "code" {
		t.Fatalf("expected fallback name, got %s", got)
	}
}
