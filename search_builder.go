package tagdex

import (
	"context"
	"fmt"
	"strings"
)

// QueryBuilder assembles query text from typed parts. It produces the
// same mini-language the parser accepts, so built queries can be logged,
// stored, and replayed as plain strings.
type QueryBuilder struct {
	tag     string
	clauses []string
	run     func(ctx context.Context, text string) ([]string, error)
}

// NewQueryBuilder creates a standalone builder. Builders obtained from a
// TypedIndex can execute directly via Do.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Tag sets the tag expression matched as a substring against the
// record's tag field.
func (b *QueryBuilder) Tag(tag string) *QueryBuilder {
	b.tag = tag
	return b
}

// Where adds a bare path filter asserting the path is reachable.
func (b *QueryBuilder) Where(path ...string) *QueryBuilder {
	b.clauses = append(b.clauses, "@"+strings.Join(path, "."))
	return b
}

// WhereEq adds a path filter requiring the reached value to contain
// value as a case/space-insensitive substring.
func (b *QueryBuilder) WhereEq(value string, path ...string) *QueryBuilder {
	b.clauses = append(b.clauses, fmt.Sprintf("@%s=(%s)", strings.Join(path, "."), value))
	return b
}

// WhereParam adds a path filter selecting the param sub-field. An empty
// value only asserts the sub-field exists.
func (b *QueryBuilder) WhereParam(param, value string, path ...string) *QueryBuilder {
	clause := fmt.Sprintf("@%s(%s)", strings.Join(path, "."), param)
	if value != "" {
		clause += fmt.Sprintf("=(%s)", value)
	}
	b.clauses = append(b.clauses, clause)
	return b
}

// String renders the query text.
func (b *QueryBuilder) String() string {
	parts := make([]string, 0, len(b.clauses)+1)
	if b.tag != "" {
		parts = append(parts, b.tag)
	}
	parts = append(parts, b.clauses...)
	return strings.Join(parts, " ")
}

// Do executes the built query. Only available on builders obtained from
// a TypedIndex.
func (b *QueryBuilder) Do(ctx context.Context) ([]string, error) {
	if b.run == nil {
		return nil, fmt.Errorf("query builder is not bound to an index")
	}
	return b.run(ctx, b.String())
}
