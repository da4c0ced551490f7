package scanner

import (
	"fmt"
	"time"

	"ArticleHarvester/internal/domain"
)

// Entry is one listing-page hit in document order.
type Entry struct {
	URL       string
	Published time.Time
}

// Strategy captures a single site extraction implementation (Nature, etc.).
type Strategy interface {
	Name() string
	ParseListing(html, listURL string) []Entry
	ExtractArticle(journalName, category, pageURL, html string) domain.ArticleCandidate
}

// Registry keeps a mapping from strategy names to their implementations.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// Register adds or replaces a strategy implementation.
func (r *Registry) Register(strategy Strategy) {
	if r.strategies == nil {
		r.strategies = map[string]Strategy{}
	}
	r.strategies[strategy.Name()] = strategy
}

// Resolve returns a strategy by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Strategy, error) {
	if strategy, ok := r.strategies[name]; ok {
		return strategy, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
