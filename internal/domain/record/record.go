// Package record defines the generic nested value shape every indexed
// entity is converted into: string-keyed maps, ordered lists, and scalar
// leaves. The filter evaluator and the search-guide builder operate on
// this closed set of shapes only.
package record

import (
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the three value shapes.
type Kind uint8

const (
	// KindScalar is a string, number, bool, or null leaf.
	KindScalar Kind = iota
	// KindMap is a string-keyed mapping.
	KindMap
	// KindList is an ordered sequence.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "scalar"
	}
}

// ScalarKind discriminates scalar leaf types.
type ScalarKind uint8

const (
	// ScalarNull is the absent value.
	ScalarNull ScalarKind = iota
	// ScalarString is a text leaf.
	ScalarString
	// ScalarNumber is a numeric leaf.
	ScalarNumber
	// ScalarBool is a boolean leaf.
	ScalarBool
)

// Value is a record value: exactly one of map, list, or scalar.
// The zero Value is the null scalar.
type Value struct {
	kind Kind

	fields map[string]Value
	items  []Value

	scalar ScalarKind
	str    string
	num    float64
	truth  bool
}

// NewMap creates a map value. The mapping is stored as given; keys keep
// their original spelling.
func NewMap(fields map[string]Value) Value {
	return Value{kind: KindMap, fields: fields}
}

// NewList creates a list value.
func NewList(items []Value) Value {
	return Value{kind: KindList, items: items}
}

// String creates a string scalar.
func String(s string) Value {
	return Value{kind: KindScalar, scalar: ScalarString, str: s}
}

// Number creates a numeric scalar.
func Number(f float64) Value {
	return Value{kind: KindScalar, scalar: ScalarNumber, num: f}
}

// Bool creates a boolean scalar.
func Bool(b bool) Value {
	return Value{kind: KindScalar, scalar: ScalarBool, truth: b}
}

// Null creates the null scalar.
func Null() Value {
	return Value{kind: KindScalar, scalar: ScalarNull}
}

// Kind returns the value shape.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar subtype. Meaningful only for KindScalar.
func (v Value) Scalar() ScalarKind { return v.scalar }

// Fields returns the underlying mapping. Nil unless KindMap.
func (v Value) Fields() map[string]Value { return v.fields }

// Items returns the underlying sequence. Nil unless KindList.
func (v Value) Items() []Value { return v.items }

// Text returns the string payload of a ScalarString value.
func (v Value) Text() string { return v.str }

// Num returns the numeric payload of a ScalarNumber value.
func (v Value) Num() float64 { return v.num }

// Truth returns the boolean payload of a ScalarBool value.
func (v Value) Truth() bool { return v.truth }

// Stringify renders a value as the text the substring matcher compares
// against. Scalars render naturally (integral floats without a decimal
// point, null as the empty string); maps and lists render in a compact
// deterministic form with sorted keys.
func Stringify(v Value) string {
	var b strings.Builder
	stringifyTo(&b, v)
	return b.String()
}

func stringifyTo(b *strings.Builder, v Value) {
	switch v.kind {
	case KindMap:
		keys := make([]string, 0, len(v.fields))
		for k := range v.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			stringifyTo(b, v.fields[k])
		}
		b.WriteByte('}')
	case KindList:
		b.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				b.WriteString(", ")
			}
			stringifyTo(b, item)
		}
		b.WriteByte(']')
	default:
		switch v.scalar {
		case ScalarString:
			b.WriteString(v.str)
		case ScalarNumber:
			b.WriteString(strconv.FormatFloat(v.num, 'f', -1, 64))
		case ScalarBool:
			b.WriteString(strconv.FormatBool(v.truth))
		case ScalarNull:
			// empty
		}
	}
}

// Equal reports whether two values are structurally equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindMap:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for k, av := range a.fields {
			bv, ok := b.fields[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindList:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	default:
		if a.scalar != b.scalar {
			return false
		}
		switch a.scalar {
		case ScalarString:
			return a.str == b.str
		case ScalarNumber:
			return a.num == b.num
		case ScalarBool:
			return a.truth == b.truth
		default:
			return true
		}
	}
}
