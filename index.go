package tagdex

import (
	"context"
	"fmt"

	"github.com/indu-doc/tagdex/internal/domain/record"
)

// TypedIndex is a generic, schema-first index backed by a tagdex Client.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	class  string
	client *Client
	meta   *schemaMeta
}

// NewIndex creates a typed index handle for the given class name.
// T must be a struct with a `tagdex:"...,id"` field. Schema is parsed
// once and cached.
func NewIndex[T any](client *Client, class string) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", class, err)
	}
	client.indexSvc.RegisterConverter(class, func(source any) (record.Value, error) {
		item, ok := source.(T)
		if !ok {
			return record.Value{}, fmt.Errorf("expected %s, got %T", meta.typ, source)
		}
		return meta.toRecord(item)
	})
	return &TypedIndex[T]{class: class, client: client, meta: meta}, nil
}

// Put converts the item via its struct tags and stores it under the id
// field's value, replacing any prior entry.
func (idx *TypedIndex[T]) Put(ctx context.Context, item T) error {
	id := idx.meta.identify(item)
	if err := idx.client.Index(idx.class).Put(ctx, id, item); err != nil {
		return fmt.Errorf("typed put: %w", err)
	}
	return nil
}

// PutBatch indexes items in order, stopping at the first failure.
// Returns how many records were stored.
func (idx *TypedIndex[T]) PutBatch(ctx context.Context, items []T) (int, error) {
	batch := make([]Item, len(items))
	for i, item := range items {
		batch[i] = Item{ID: idx.meta.identify(item), Source: item}
	}
	return idx.client.Index(idx.class).PutBatch(ctx, batch)
}

// Search returns a fluent query builder for this index.
func (idx *TypedIndex[T]) Search() *QueryBuilder {
	return &QueryBuilder{
		run: func(ctx context.Context, text string) ([]string, error) {
			return idx.client.Search(idx.class).Query(ctx, text)
		},
	}
}

// Guide builds the search-guide tree for this index's class.
func (idx *TypedIndex[T]) Guide(ctx context.Context) (*GuideNode, error) {
	return idx.client.Guide(idx.class).Tree(ctx)
}
