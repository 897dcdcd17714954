// Package index converts source objects into record values and stores
// them per entity class.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/domain/record"
	"github.com/indu-doc/tagdex/internal/logger"
	"github.com/indu-doc/tagdex/internal/metrics"
)

// Converter turns a source object into the generic record shape. Each
// entity class may register its own; record.FromAny is the default.
type Converter func(source any) (record.Value, error)

// Item is one record to index.
type Item struct {
	ID     string
	Source any
}

// Service is the indexing use case: conversion plus replace-on-write
// storage. Conversion failures are fail-fast — nothing is stored for the
// failing record, so a half-converted record can never shadow a search.
type Service struct {
	repo Repository

	mu         sync.RWMutex
	converters map[string]Converter
}

// New creates an indexing service.
func New(repo Repository) *Service {
	return &Service{repo: repo, converters: make(map[string]Converter)}
}

// RegisterConverter sets the conversion used for a class. Passing nil
// restores the default.
func (s *Service) RegisterConverter(class string, fn Converter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil {
		delete(s.converters, class)
		return
	}
	s.converters[class] = fn
}

func (s *Service) converter(class string) Converter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if fn, ok := s.converters[class]; ok {
		return fn
	}
	return record.FromAny
}

// Index converts and stores one record, overwriting any prior entry
// under the same identifier.
func (s *Service) Index(ctx context.Context, class, id string, source any) error {
	if id == "" {
		return errors.New("record identifier must not be empty")
	}
	rec, err := s.converter(class)(source)
	if err != nil {
		return fmt.Errorf("convert record %q: %w", id, err)
	}
	s.repo.Put(class, id, rec)
	metrics.RecordsIndexedTotal.WithLabelValues(class).Inc()

	logger.FromContext(ctx).Debug("indexed record",
		zap.String("class", class),
		zap.String("id", id),
	)
	return nil
}

// IndexBatch indexes items in order and returns how many were stored.
// It stops at the first failing item; the preceding items stay indexed,
// since each record is converted and stored atomically.
func (s *Service) IndexBatch(ctx context.Context, class string, items []Item) (int, error) {
	for i, item := range items {
		if err := s.Index(ctx, class, item.ID, item.Source); err != nil {
			return i, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return len(items), nil
}
