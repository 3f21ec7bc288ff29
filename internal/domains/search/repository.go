package search

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Indexer is the write side of the search index. Content services call it
// inside the transaction that mutates the source row, keeping the index in
// step with the content it describes.
type Indexer interface {
	Upsert(ctx context.Context, tx pgx.Tx, entityType EntityType, entityID uuid.UUID, title, content string, tags []string) error
	Delete(ctx context.Context, tx pgx.Tx, entityType EntityType, entityID uuid.UUID) error
}

// Repository combines index writes with the FTS read queries.
type Repository interface {
	Indexer

	SearchArticles(ctx context.Context, query string) ([]ArticleRow, error)
	SearchSpaces(ctx context.Context, query string) ([]SpaceRow, error)
	SearchUsers(ctx context.Context, query string) ([]UserRow, error)

	// Autocomplete source lookups (prefix matching).
	ArticleTitlesByPrefix(ctx context.Context, prefix string, limit int) ([]AutocompleteEntry, error)
	SpaceNamesByPrefix(ctx context.Context, prefix string, limit int) ([]AutocompleteEntry, error)

	// RebuildEntry re-derives one index row from its source table. Returns
	// ErrEntityNotFound when the source row is gone (the index row is then
	// deleted instead).
	RebuildEntry(ctx context.Context, entityType EntityType, entityID uuid.UUID) error
}
