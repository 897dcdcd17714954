package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/indu-doc/tagdex/internal/domain"
	"github.com/indu-doc/tagdex/internal/domain/record"
	"github.com/indu-doc/tagdex/internal/querylang"
)

type mockRepo struct {
	ids  []string
	recs map[string]record.Value
	err  error
}

func (m *mockRepo) Walk(class string, fn func(id string, rec record.Value) bool) error {
	if m.err != nil {
		return m.err
	}
	for _, id := range m.ids {
		if !fn(id, m.recs[id]) {
			return nil
		}
	}
	return nil
}

func (m *mockRepo) put(t *testing.T, id string, data any) {
	t.Helper()
	if m.recs == nil {
		m.recs = make(map[string]record.Value)
	}
	m.ids = append(m.ids, id)
	m.recs[id] = rec(t, data)
}

func TestService_Search(t *testing.T) {
	repo := &mockRepo{}
	repo.put(t, "T1", map[string]any{
		"tag":   "=A1-M2",
		"power": map[string]any{"voltage": "24V"},
	})
	repo.put(t, "T2", map[string]any{
		"tag":   "=B9-K1",
		"power": map[string]any{"voltage": "230V"},
	})
	svc := New(repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"tag and filter", "=A1 @power(voltage)=24", []string{"T1"}},
		{"filter only", "@power(voltage)", []string{"T1", "T2"}},
		{"empty query matches all", "", []string{"T1", "T2"}},
		{"no match", "=Z9", []string{}},
		{"value narrows", "@power(voltage)=230", []string{"T2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, "terminals", tt.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestService_Search_SyntaxError(t *testing.T) {
	svc := New(&mockRepo{})
	_, err := svc.Search(context.Background(), "terminals", "@a..b")
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !errors.Is(err, querylang.ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
	var se *querylang.SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("expected *SyntaxError in chain, got %v", err)
	}
}

func TestService_Search_UnknownClass(t *testing.T) {
	svc := New(&mockRepo{err: domain.ErrClassNotFound})
	_, err := svc.Search(context.Background(), "ghosts", "@x")
	if !errors.Is(err, domain.ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}

func TestService_Search_InsertionOrder(t *testing.T) {
	repo := &mockRepo{}
	repo.put(t, "c", map[string]any{"n": 1})
	repo.put(t, "a", map[string]any{"n": 1})
	repo.put(t, "b", map[string]any{"n": 1})
	got, err := New(repo).Search(context.Background(), "x", "@n=1")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search order = %v, want %v", got, want)
	}
}
