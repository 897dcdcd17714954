// Package guide defines the search-guide tree: a derived index of every
// field path observed across a class's records, with ready-to-use filter
// templates collected at the nodes where they apply.
package guide

import (
	"encoding/json"
	"sort"
	"strings"
)

// Reserved keys used in the serialized tree form. Record fields are
// normalized before insertion and can never collide with these.
const (
	// FiltersKey holds the set of filter template strings at a node.
	FiltersKey = "__filters__"
	// ListItemsKey marks the child node describing the items of a list.
	ListItemsKey = "[list items]"
)

// Node is one position in the search-guide tree. Children are keyed by
// normalized field name; a non-nil list child describes the merged shape
// of list items seen at this position.
type Node struct {
	children map[string]*Node
	list     *Node
	filters  map[string]struct{}
}

// NewNode creates an empty tree node.
func NewNode() *Node {
	return &Node{}
}

// Child returns the child for a normalized key, nil if absent.
func (n *Node) Child(key string) *Node {
	return n.children[key]
}

// Keys returns the child keys in sorted order.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns the list-items child, nil if no list was seen here.
func (n *Node) List() *Node {
	return n.list
}

// Filters returns the filter templates collected at this node, sorted
// case-insensitively for stable output.
func (n *Node) Filters() []string {
	if len(n.filters) == 0 {
		return nil
	}
	out := make([]string, 0, len(n.filters))
	for f := range n.filters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i]), strings.ToLower(out[j])
		if a == b {
			return out[i] < out[j]
		}
		return a < b
	})
	return out
}

// EnsureChild returns the child for key, creating it if needed.
func (n *Node) EnsureChild(key string) *Node {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	child, ok := n.children[key]
	if !ok {
		child = NewNode()
		n.children[key] = child
	}
	return child
}

// EnsureList returns the list-items child, creating it if needed.
func (n *Node) EnsureList() *Node {
	if n.list == nil {
		n.list = NewNode()
	}
	return n.list
}

// AddFilter records a filter template at this node. Duplicates collapse.
func (n *Node) AddFilter(template string) {
	if n.filters == nil {
		n.filters = make(map[string]struct{})
	}
	n.filters[template] = struct{}{}
}

// Equal reports structural equality. Filter sets compare by content,
// independent of insertion order.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if len(n.children) != len(other.children) || len(n.filters) != len(other.filters) {
		return false
	}
	for k, child := range n.children {
		oc, ok := other.children[k]
		if !ok || !child.Equal(oc) {
			return false
		}
	}
	for f := range n.filters {
		if _, ok := other.filters[f]; !ok {
			return false
		}
	}
	if (n.list == nil) != (other.list == nil) {
		return false
	}
	if n.list != nil && !n.list.Equal(other.list) {
		return false
	}
	return true
}

// MarshalJSON renders the node as an object: one entry per child key,
// plus the reserved list-items and filters entries when present. Filters
// serialize as a sorted array.
func (n *Node) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(n.children)+2)
	for k, child := range n.children {
		obj[k] = child
	}
	if n.list != nil {
		obj[ListItemsKey] = n.list
	}
	if len(n.filters) > 0 {
		obj[FiltersKey] = n.Filters()
	}
	return json.Marshal(obj)
}
