// Package guide builds search-guide trees: for each class it merges the
// shapes of all indexed records into one tree of field paths and filter
// templates, so callers can discover what is queryable.
package guide

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/domain/guide"
	"github.com/indu-doc/tagdex/internal/domain/record"
	"github.com/indu-doc/tagdex/internal/logger"
	"github.com/indu-doc/tagdex/internal/metrics"
	"github.com/indu-doc/tagdex/internal/norm"
)

// Service derives search-guide trees from indexed records.
type Service struct {
	repo Repository
}

// New creates a guide service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Build walks every record of the class and merges its shape into a
// fresh tree. The result is purely derived: building never mutates the
// index, and two builds over unchanged contents yield equal trees.
func (s *Service) Build(ctx context.Context, class string) (*guide.Node, error) {
	start := time.Now()
	root := guide.NewNode()
	count := 0
	err := s.repo.Walk(class, func(id string, rec record.Value) bool {
		count++
		merge(root, rec, nil)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("walk class %q: %w", class, err)
	}

	metrics.GuideBuildsTotal.WithLabelValues(class).Inc()
	logger.FromContext(ctx).Debug("guide tree built",
		zap.String("class", class),
		zap.Int("records", count),
		zap.Duration("took", time.Since(start)),
	)
	return root, nil
}

// merge folds one record value into the tree at node, where path holds
// the normalized segments walked so far.
func merge(node *guide.Node, v record.Value, path []string) {
	switch v.Kind() {
	case record.KindMap:
		for key, val := range v.Fields() {
			normKey := norm.Normalize(key)
			child := node.EnsureChild(normKey)
			merge(child, val, append(path[:len(path):len(path)], normKey))
		}
	case record.KindList:
		listNode := node.EnsureList()
		displays := make(map[string]struct{})
		for _, item := range v.Items() {
			if item.Kind() == record.KindMap {
				if display, ok := displayLabel(item); ok {
					displays[display] = struct{}{}
				}
			}
			merge(listNode, item, path)
		}
		if len(path) > 0 {
			for display := range displays {
				listNode.AddFilter(fmt.Sprintf("@%s(%s)", strings.Join(path, "."), display))
			}
		}
	default:
		if len(path) == 0 {
			return
		}
		if len(path) > 1 {
			node.AddFilter(fmt.Sprintf("@%s(%s)", strings.Join(path[:len(path)-1], "."), path[len(path)-1]))
		} else {
			node.AddFilter("@" + path[0])
		}
	}
}

// displayLabel derives a human-readable label for a list item: the first
// non-empty name-like field, optionally suffixed with a unit in brackets
// or, failing that, the item's value field.
func displayLabel(item record.Value) (string, bool) {
	candidate, ok := firstTruthy(item, "name", "key", "tag")
	if !ok || candidate.Kind() != record.KindScalar || candidate.Scalar() != record.ScalarString {
		return "", false
	}
	display := strings.TrimSpace(candidate.Text())
	if display == "" {
		display = norm.Normalize(candidate.Text())
	}
	if unit, ok := firstTruthy(item, "unit", "units"); ok && isBlankFreeString(unit) {
		display = fmt.Sprintf("%s [%s]", display, strings.TrimSpace(unit.Text()))
	} else if val, ok := item.Fields()["value"]; ok && isBlankFreeString(val) {
		display = fmt.Sprintf("%s %s", display, strings.TrimSpace(val.Text()))
	}
	return display, true
}

// firstTruthy returns the first of the named fields holding a non-empty,
// non-zero value.
func firstTruthy(item record.Value, keys ...string) (record.Value, bool) {
	fields := item.Fields()
	for _, k := range keys {
		if v, ok := fields[k]; ok && truthy(v) {
			return v, true
		}
	}
	return record.Value{}, false
}

func truthy(v record.Value) bool {
	switch v.Kind() {
	case record.KindMap:
		return len(v.Fields()) > 0
	case record.KindList:
		return len(v.Items()) > 0
	}
	switch v.Scalar() {
	case record.ScalarString:
		return v.Text() != ""
	case record.ScalarNumber:
		return v.Num() != 0
	case record.ScalarBool:
		return v.Truth()
	}
	return false
}

func isBlankFreeString(v record.Value) bool {
	return v.Kind() == record.KindScalar &&
		v.Scalar() == record.ScalarString &&
		strings.TrimSpace(v.Text()) != ""
}
