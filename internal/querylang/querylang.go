// Package querylang parses the compact search query language into the
// typed query model.
//
// Grammar (terminals in quotes):
//
//	query        := [tag_expr] {filter}
//	tag_expr     := TAGWORD                 // ([=+-.][A-Za-z0-9_]+)+
//	filter       := "@" dotted_name ["=" filter_value]
//	dotted_name  := WORD {"." WORD} ["(" [param_text] ")"]
//	filter_value := VALUE_TEXT | "(" [VALUE_TEXT] ")"
//
// WORD excludes '=', '.', '(', ')', '@' and whitespace. param_text is any
// run of characters excluding ')'. A bare value runs to the next '@' or
// the end of input, so values may contain whitespace and '='; parsed
// values are stripped of surrounding whitespace. An explicitly empty
// parenthesized value "()" yields the empty string, which is distinct
// from no value at all.
//
// Parenthesized text is always the parameter; un-parenthesized dotted
// tokens are always path segments, so "@a.b" is the two-segment path
// [a b] with no parameter.
package querylang

import (
	"fmt"

	"github.com/indu-doc/tagdex/internal/domain/query"
)

// Parse parses query text into the typed query model. It is pure and
// idempotent: the same text always yields the same Query. The only
// failure mode is a *SyntaxError.
func Parse(text string) (query.Query, error) {
	tree, err := parse(text)
	if err != nil {
		return query.Query{}, err
	}
	q, err := transform(tree)
	if err != nil {
		return query.Query{}, fmt.Errorf("transform query: %w", err)
	}
	return q, nil
}
