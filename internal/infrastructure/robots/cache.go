// Package robots caches per-origin robots.txt policies for the crawl agent.
package robots

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"

	"ArticleHarvester/internal/ports"
)

const maxPolicySize = 512 * 1024

// Cache answers Allowed per URL, keyed by scheme+host for the process
// lifetime. An unreadable policy fails closed: the origin is treated as
// disallowed and not cached, so a later query may retry the fetch.
type Cache struct {
	userAgent string
	client    *http.Client
	groups    map[string]*robotstxt.Group
}

var _ ports.PermissionChecker = (*Cache)(nil)

// New builds a cache fetching policies with its own client; policy fetches
// do not go through the crawl pacing clock.
func New(userAgent string, timeout time.Duration) *Cache {
	return &Cache{
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		groups:    map[string]*robotstxt.Group{},
	}
}

// Allowed reports whether the agent may fetch rawURL.
func (c *Cache) Allowed(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	origin := parsed.Scheme + "://" + parsed.Host

	group, ok := c.groups[origin]
	if !ok {
		group = c.fetchGroup(origin)
		if group == nil {
			return false
		}
		c.groups[origin] = group
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return group.Test(path)
}

func (c *Cache) fetchGroup(origin string) *robotstxt.Group {
	req, err := http.NewRequest(http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPolicySize))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data.FindGroup(c.userAgent)
}
