package tools

import (
	"context"

	"github.com/kailas-cloud/groupmatch/internal/domain/search/params"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/result"
)

// Searcher runs group search with validated parameters.
type Searcher interface {
	Search(ctx context.Context, p params.Params) result.Result
}
