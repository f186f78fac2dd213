package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/groupmatch/internal/domain/group"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/category"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/params"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/result"
)

// DefaultPageSize is the number of groups per result page.
const DefaultPageSize = 5

// Search filters corpus by p and returns the requested page.
// Filters are a conjunction; corpus order is preserved. Pure and deterministic.
func Search(corpus group.Corpus, table category.Table, p params.Params, pageSize int) result.Result {
	keywords := p.NormalizedKeywords()

	var tags map[string]struct{}
	if p.HasCategory() {
		tags = table.Tags(p.Category)
	}

	matches := make([]group.Group, 0, corpus.Len())
	for i := range corpus.Len() {
		g := corpus.At(i)
		if !matchKeywords(g, keywords) {
			continue
		}
		if tags != nil && !g.HasAnyTag(tags) {
			continue
		}
		if !p.TimePreference.Matches(g.Cadence()) {
			continue
		}
		matches = append(matches, g)
	}

	return result.Paginate(matches, p.RequestedPage(), pageSize)
}

// matchKeywords keeps g when any keyword is a substring of its text. No keywords keeps everything.
func matchKeywords(g group.Group, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, k := range keywords {
		if g.Contains(k) {
			return true
		}
	}
	return false
}

// Engine runs group search over a fixed corpus and category table.
type Engine struct {
	corpus   group.Corpus
	table    category.Table
	pageSize int
}

// New creates an Engine. pageSize must be positive.
func New(corpus group.Corpus, table category.Table, pageSize int) (*Engine, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	return &Engine{corpus: corpus, table: table, pageSize: pageSize}, nil
}

// Search runs Search against the engine's inputs.
// ctx is accepted for symmetry with other handlers; search never blocks.
func (e *Engine) Search(_ context.Context, p params.Params) result.Result {
	return Search(e.corpus, e.table, p, e.pageSize)
}

// PageSize returns the configured page size.
func (e *Engine) PageSize() int { return e.pageSize }

// Size returns the number of groups in the corpus.
func (e *Engine) Size() int { return e.corpus.Len() }
