package tagdex

import (
	"context"
	"fmt"

	domguide "github.com/indu-doc/tagdex/internal/domain/guide"
	guideuc "github.com/indu-doc/tagdex/internal/usecase/guide"
	searchuc "github.com/indu-doc/tagdex/internal/usecase/search"
)

// SearchService executes queries against a single class.
type SearchService struct {
	class  string
	svc    *searchuc.Service
	client *Client
}

// Query evaluates the query text against every record of the class and
// returns matching identifiers in insertion order. Malformed query text
// yields a *SyntaxError (check with errors.As or IsSyntaxError).
func (s *SearchService) Query(ctx context.Context, text string) ([]string, error) {
	ids, err := s.svc.Search(s.client.ctx(ctx), s.class, text)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return ids, nil
}

// GuideService derives the search-guide tree for a single class.
type GuideService struct {
	class  string
	svc    *guideuc.Service
	client *Client
}

// GuideNode is one position in the search-guide tree: the queryable
// child fields, the shape of list items seen here, and ready-to-use
// filter strings.
type GuideNode struct {
	Children  map[string]*GuideNode `json:"children,omitempty"`
	ListItems *GuideNode            `json:"list_items,omitempty"`
	Filters   []string              `json:"filters,omitempty"`
}

// Tree builds the guide tree from the current class contents.
func (s *GuideService) Tree(ctx context.Context) (*GuideNode, error) {
	root, err := s.svc.Build(s.client.ctx(ctx), s.class)
	if err != nil {
		return nil, fmt.Errorf("guide: %w", err)
	}
	return fromGuideNode(root), nil
}

func fromGuideNode(n *domguide.Node) *GuideNode {
	if n == nil {
		return nil
	}
	out := &GuideNode{
		ListItems: fromGuideNode(n.List()),
		Filters:   n.Filters(),
	}
	keys := n.Keys()
	if len(keys) > 0 {
		out.Children = make(map[string]*GuideNode, len(keys))
		for _, k := range keys {
			out.Children[k] = fromGuideNode(n.Child(k))
		}
	}
	return out
}
