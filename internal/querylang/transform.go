package querylang

import (
	"strings"

	"github.com/indu-doc/tagdex/internal/domain/query"
)

// transform converts the typed parse tree into the query model. The
// grammar guarantees every dotted name has at least one word, so the
// Filter constructor cannot reject here; its error is propagated anyway
// rather than silently ignored.
func transform(t *queryTree) (query.Query, error) {
	var tag *string
	if t.tag != nil {
		w := t.tag.word
		tag = &w
	}

	var filters []query.Filter
	for _, fn := range t.filters {
		path := make([]string, len(fn.name.words))
		for i, w := range fn.name.words {
			path[i] = w.text
		}

		var param *string
		if fn.name.param != nil {
			p := fn.name.param.text
			param = &p
		}

		var value *string
		if fn.value != nil {
			v := strings.TrimSpace(fn.value.text)
			value = &v
		}

		f, err := query.NewFilter(path, param, value)
		if err != nil {
			return query.Query{}, err
		}
		filters = append(filters, f)
	}

	return query.New(tag, filters), nil
}
