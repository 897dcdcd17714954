package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/domain"
	"github.com/indu-doc/tagdex/internal/domain/record"
	"github.com/indu-doc/tagdex/internal/logger"
	"github.com/indu-doc/tagdex/internal/metrics"
	"github.com/indu-doc/tagdex/internal/querylang"
)

// Service runs text queries against an entity class.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search parses the query text once and evaluates it against every
// record of the class, returning matching identifiers in index insertion
// order. Query syntax errors are propagated (errors.Is/As against
// querylang.ErrSyntax and *querylang.SyntaxError both work); an unknown
// class reports domain.ErrClassNotFound.
func (s *Service) Search(ctx context.Context, class, queryText string) ([]string, error) {
	q, err := querylang.Parse(queryText)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(class, "syntax_error").Inc()
		return nil, fmt.Errorf("parse query: %w", err)
	}

	start := time.Now()
	ids := make([]string, 0)
	scanned := 0
	err = s.repo.Walk(class, func(id string, rec record.Value) bool {
		scanned++
		if Matches(rec, q) {
			ids = append(ids, id)
		}
		return true
	})
	if err != nil {
		if errors.Is(err, domain.ErrClassNotFound) {
			metrics.SearchesTotal.WithLabelValues(class, "not_found").Inc()
		}
		return nil, fmt.Errorf("scan class %q: %w", class, err)
	}

	metrics.SearchesTotal.WithLabelValues(class, "ok").Inc()
	metrics.SearchDuration.WithLabelValues(class).Observe(time.Since(start).Seconds())

	logger.FromContext(ctx).Debug("search scan complete",
		zap.String("class", class),
		zap.Int("scanned", scanned),
		zap.Int("matched", len(ids)),
		zap.Duration("took", time.Since(start)),
	)
	return ids, nil
}
