// Package tagdex is an embeddable structured-query engine: it indexes
// nested records per entity class and finds them with a compact textual
// query language mixing a tag-prefix match with attribute filters.
package tagdex

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/domain/record"
	"github.com/indu-doc/tagdex/internal/logger"
	"github.com/indu-doc/tagdex/internal/repository/entity"
	guideuc "github.com/indu-doc/tagdex/internal/usecase/guide"
	indexuc "github.com/indu-doc/tagdex/internal/usecase/index"
	searchuc "github.com/indu-doc/tagdex/internal/usecase/search"
)

// Client is the tagdex SDK entry point. All state is in memory; a zero
// config Client is ready to index right away.
type Client struct {
	store     *entity.Store
	logger    *zap.Logger
	indexSvc  *indexuc.Service
	searchSvc *searchuc.Service
	guideSvc  *guideuc.Service
}

// New creates a tagdex Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	store := entity.NewStore()
	indexSvc := indexuc.New(store)
	for class, fn := range cfg.converters {
		indexSvc.RegisterConverter(class, adaptConverter(fn))
	}

	return &Client{
		store:     store,
		logger:    cfg.logger,
		indexSvc:  indexSvc,
		searchSvc: searchuc.New(store),
		guideSvc:  guideuc.New(store),
	}, nil
}

// Index returns the indexing service for a given class.
func (c *Client) Index(class string) *IndexService {
	return &IndexService{class: class, svc: c.indexSvc, client: c}
}

// Search returns the search service for a given class.
func (c *Client) Search(class string) *SearchService {
	return &SearchService{class: class, svc: c.searchSvc, client: c}
}

// Guide returns the guide service for a given class.
func (c *Client) Guide(class string) *GuideService {
	return &GuideService{class: class, svc: c.guideSvc, client: c}
}

// Drop discards a whole class index. Reports whether it existed.
func (c *Client) Drop(class string) bool {
	return c.store.Drop(class)
}

// Classes returns the known class names, sorted.
func (c *Client) Classes() []string {
	return c.store.Classes()
}

// ctx attaches the client logger so use case debug logs surface.
func (c *Client) ctx(parent context.Context) context.Context {
	return logger.ContextWithLogger(parent, c.logger)
}

// IndexService indexes records into a single class.
type IndexService struct {
	class  string
	svc    *indexuc.Service
	client *Client
}

// Item is one record to index in a batch.
type Item struct {
	ID     string
	Source any
}

// Put converts source via the class converter (generic nested conversion
// by default) and stores it under id, replacing any prior entry.
func (s *IndexService) Put(ctx context.Context, id string, source any) error {
	if err := s.svc.Index(s.client.ctx(ctx), s.class, id, source); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	return nil
}

// PutBatch indexes items in order, stopping at the first failure.
// Returns how many records were stored.
func (s *IndexService) PutBatch(ctx context.Context, items []Item) (int, error) {
	batch := make([]indexuc.Item, len(items))
	for i, item := range items {
		batch[i] = indexuc.Item{ID: item.ID, Source: item.Source}
	}
	stored, err := s.svc.IndexBatch(s.client.ctx(ctx), s.class, batch)
	if err != nil {
		return stored, fmt.Errorf("put batch: %w", err)
	}
	return stored, nil
}

// adaptConverter wraps a public Converter so its generic output goes
// through the standard nested conversion.
func adaptConverter(fn Converter) indexuc.Converter {
	return func(source any) (record.Value, error) {
		out, err := fn(source)
		if err != nil {
			return record.Value{}, err
		}
		return record.FromAny(out)
	}
}
