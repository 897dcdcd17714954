// Package query defines the typed query model produced by the parser:
// an optional tag expression plus an ordered list of filters.
package query

import (
	"errors"
	"strings"
)

// Filter is one @path(param)=value clause. A filter navigates path through
// a record, optionally selects the param sub-field, and optionally requires
// the stringified result to contain value as a case/space-insensitive
// substring. A nil value means "match regardless of value"; the empty
// string value is distinct and matches only values containing nothing,
// i.e. everything reachable.
type Filter struct {
	path  []string
	param *string
	value *string
}

// NewFilter validates and creates a Filter. The path must have at least
// one non-empty segment.
func NewFilter(path []string, param, value *string) (Filter, error) {
	if len(path) == 0 {
		return Filter{}, errors.New("filter path must not be empty")
	}
	for _, seg := range path {
		if seg == "" {
			return Filter{}, errors.New("filter path segment must not be empty")
		}
	}
	return Filter{path: path, param: param, value: value}, nil
}

// Path returns the ordered path segments.
func (f Filter) Path() []string { return f.path }

// Param returns the optional parameter, nil if none was given.
func (f Filter) Param() *string { return f.param }

// Value returns the optional value. Nil means no value was given; the
// empty string means an explicitly empty value.
func (f Filter) Value() *string { return f.value }

// String reconstructs the textual clause form, for logs and guide output.
func (f Filter) String() string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(strings.Join(f.path, "."))
	if f.param != nil {
		b.WriteByte('(')
		b.WriteString(*f.param)
		b.WriteByte(')')
	}
	if f.value != nil {
		b.WriteByte('=')
		b.WriteString(*f.value)
	}
	return b.String()
}

// Query is a parsed search query: optional tag plus AND-combined filters.
// The zero Query matches every record.
type Query struct {
	tag     *string
	filters []Filter
}

// New creates a Query.
func New(tag *string, filters []Filter) Query {
	return Query{tag: tag, filters: filters}
}

// Tag returns the tag expression, nil if the query has none.
func (q Query) Tag() *string { return q.tag }

// Filters returns the ordered filters.
func (q Query) Filters() []Filter { return q.filters }

// IsEmpty reports whether the query has neither tag nor filters.
func (q Query) IsEmpty() bool {
	return q.tag == nil && len(q.filters) == 0
}
