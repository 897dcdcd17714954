package querylang

// Typed parse tree: one node type per grammar production. The transform
// step matches exhaustively over these instead of inspecting runtime
// shapes, which keeps the param/path disambiguation in a single place.

// queryTree is the root production.
type queryTree struct {
	tag     *tagNode
	filters []filterNode
}

// tagNode is a tag_expr: a single TAGWORD.
type tagNode struct {
	word string
	pos  int
}

// filterNode is one "@" dotted_name ["=" value] clause.
type filterNode struct {
	name  dottedNameNode
	value *valueNode
	pos   int
}

// dottedNameNode is WORD {"." WORD} with an optional parenthesized
// parameter. The words are always path segments; only parenthesized text
// can become the parameter.
type dottedNameNode struct {
	words []wordNode
	param *paramNode
}

type wordNode struct {
	text string
	pos  int
}

// paramNode is the raw text between "(" and ")". An empty "()" produces
// no paramNode at all.
type paramNode struct {
	text string
	pos  int
}

// valueNode is the raw value text after "=", before stripping.
type valueNode struct {
	text          string
	parenthesized bool
	pos           int
}
