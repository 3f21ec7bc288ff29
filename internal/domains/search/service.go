package search

import (
	"context"
)

type Service interface {
	Search(ctx context.Context, q *Query) (*Response, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]AutocompleteEntry, error)

	// Reindex queues a rebuild of one entity's index row from its source table.
	Reindex(ctx context.Context, req *ReindexRequest) error
}
