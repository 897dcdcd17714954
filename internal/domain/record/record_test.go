package record

import (
	"strings"
	"testing"
)

func TestFromAny_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"string", "24V", String("24V")},
		{"bool", true, Bool(true)},
		{"nil", nil, Null()},
		{"float64", 4.5, Number(4.5)},
		{"int", 4, Number(4)},
		{"int64", int64(-7), Number(-7)},
		{"uint32", uint32(9), Number(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("FromAny(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromAny_Nested(t *testing.T) {
	got, err := FromAny(map[string]any{
		"tag": "=A1-M2",
		"links": []any{
			map[string]any{"color": "red", "pin": 4},
			map[string]any{"color": "blue"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind() != KindMap {
		t.Fatalf("expected map, got %s", got.Kind())
	}
	links, ok := got.Fields()["links"]
	if !ok || links.Kind() != KindList {
		t.Fatalf("expected links list, got %v", links.Kind())
	}
	if len(links.Items()) != 2 {
		t.Fatalf("expected 2 link items, got %d", len(links.Items()))
	}
	pin := links.Items()[0].Fields()["pin"]
	if pin.Scalar() != ScalarNumber || pin.Num() != 4 {
		t.Errorf("expected pin number 4, got %v", pin)
	}
}

func TestFromAny_UnsupportedType(t *testing.T) {
	_, err := FromAny(map[string]any{"bad": make(chan int)})
	if err == nil {
		t.Fatal("expected error for unsupported leaf type")
	}
	if !strings.Contains(err.Error(), "unsupported value type") {
		t.Errorf("error = %q", err)
	}
	if !strings.Contains(err.Error(), `field "bad"`) {
		t.Errorf("error should name the offending field, got %q", err)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"string", String("24V"), "24V"},
		{"integral number", Number(4), "4"},
		{"fractional number", Number(4.5), "4.5"},
		{"bool", Bool(true), "true"},
		{"null", Null(), ""},
		{"map sorted keys", MustFromAny(map[string]any{"b": "2", "a": "1"}), "{a: 1, b: 2}"},
		{"list", MustFromAny([]any{"x", 2}), "[x, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a := MustFromAny(map[string]any{"x": []any{1, "two", nil}})
	b := MustFromAny(map[string]any{"x": []any{1, "two", nil}})
	if !Equal(a, b) {
		t.Error("expected structurally equal values")
	}

	c := MustFromAny(map[string]any{"x": []any{1, "two"}})
	if Equal(a, c) {
		t.Error("expected different list lengths to compare unequal")
	}
	if Equal(String("4"), Number(4)) {
		t.Error("expected string and number scalars to compare unequal")
	}
}
