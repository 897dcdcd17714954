package tagdex

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestClient_PutAndQuery(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	idx := c.Index("targets")
	if err := idx.Put(ctx, "T1", map[string]any{
		"tag":   "=A1-M2",
		"power": map[string]any{"voltage": "24V"},
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := idx.Put(ctx, "T2", map[string]any{
		"tag":   "=A1-M3",
		"power": map[string]any{"voltage": "230V"},
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ids, err := c.Search("targets").Query(ctx, "=A1 @power(voltage)=24")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"T1"}) {
		t.Errorf("ids = %v, want [T1]", ids)
	}

	ids, err = c.Search("targets").Query(ctx, "@power(voltage)")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"T1", "T2"}) {
		t.Errorf("ids = %v, want [T1 T2]", ids)
	}
}

func TestClient_SyntaxError(t *testing.T) {
	c, _ := New()
	c.Index("targets").Put(context.Background(), "T1", map[string]any{"n": 1})

	_, err := c.Search("targets").Query(context.Background(), "@(unterminated")
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !IsSyntaxError(err) {
		t.Errorf("expected IsSyntaxError, got %v", err)
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("expected *SyntaxError in chain, got %v", err)
	}
}

func TestClient_UnknownClass(t *testing.T) {
	c, _ := New()
	_, err := c.Search("ghosts").Query(context.Background(), "@x")
	if !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}

func TestClient_WithConverter(t *testing.T) {
	type device struct {
		Tag     string
		Voltage string
	}
	c, err := New(WithConverter("devices", func(source any) (any, error) {
		d, ok := source.(device)
		if !ok {
			return nil, fmt.Errorf("expected device, got %T", source)
		}
		return map[string]any{
			"tag":   d.Tag,
			"power": map[string]any{"voltage": d.Voltage},
		}, nil
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := c.Index("devices").Put(ctx, "D1", device{Tag: "=A1", Voltage: "24V"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ids, err := c.Search("devices").Query(ctx, "@power.voltage=24")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"D1"}) {
		t.Errorf("ids = %v, want [D1]", ids)
	}
}

func TestClient_ConverterFailureStoresNothing(t *testing.T) {
	c, _ := New(WithConverter("devices", func(source any) (any, error) {
		return nil, errors.New("boom")
	}))
	err := c.Index("devices").Put(context.Background(), "D1", "anything")
	if err == nil {
		t.Fatal("expected conversion failure")
	}

	ids, err := c.Search("devices").Query(context.Background(), "")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected nothing stored, got %v", ids)
	}
}

func TestClient_PutBatch(t *testing.T) {
	c, _ := New()
	ctx := context.Background()

	stored, err := c.Index("targets").PutBatch(ctx, []Item{
		{ID: "T1", Source: map[string]any{"n": 1}},
		{ID: "T2", Source: map[string]any{"n": 2}},
	})
	if err != nil {
		t.Fatalf("PutBatch: %v", err)
	}
	if stored != 2 {
		t.Errorf("stored = %d, want 2", stored)
	}
}

func TestClient_Guide(t *testing.T) {
	c, _ := New()
	ctx := context.Background()
	c.Index("targets").Put(ctx, "T1", map[string]any{
		"power": map[string]any{"voltage": "24V"},
		"links": []any{map[string]any{"name": "L1"}},
	})

	tree, err := c.Guide("targets").Tree(ctx)
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	power, ok := tree.Children["power"]
	if !ok {
		t.Fatalf("expected power child, got %v", tree.Children)
	}
	voltage, ok := power.Children["voltage"]
	if !ok {
		t.Fatal("expected voltage under power")
	}
	if !reflect.DeepEqual(voltage.Filters, []string{"@power(voltage)"}) {
		t.Errorf("voltage filters = %v", voltage.Filters)
	}
	links := tree.Children["links"]
	if links == nil || links.ListItems == nil {
		t.Fatal("expected links list node")
	}
	if !reflect.DeepEqual(links.ListItems.Filters, []string{"@links(L1)"}) {
		t.Errorf("links filters = %v", links.ListItems.Filters)
	}
}

func TestClient_DropAndClasses(t *testing.T) {
	c, _ := New()
	ctx := context.Background()
	c.Index("targets").Put(ctx, "T1", map[string]any{"n": 1})
	c.Index("connections").Put(ctx, "C1", map[string]any{"n": 1})

	if got := c.Classes(); !reflect.DeepEqual(got, []string{"connections", "targets"}) {
		t.Errorf("Classes = %v", got)
	}
	if !c.Drop("targets") {
		t.Error("expected Drop to report the class existed")
	}
	if c.Drop("targets") {
		t.Error("expected second Drop to report absence")
	}
}
