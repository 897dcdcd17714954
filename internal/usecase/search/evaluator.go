// Package search evaluates parsed queries against indexed records by
// full linear scan.
package search

import (
	"github.com/indu-doc/tagdex/internal/domain/query"
	"github.com/indu-doc/tagdex/internal/domain/record"
	"github.com/indu-doc/tagdex/internal/norm"
)

// tagField is the designated top-level field the tag expression matches
// against.
const tagField = "tag"

// Matches reports whether a record satisfies a query. The tag is an
// AND-ed precondition; filters combine with AND. Missing paths and shape
// mismatches are ordinary non-matches, never errors.
func Matches(rec record.Value, q query.Query) bool {
	if t := q.Tag(); t != nil {
		tagVal, ok := lookupField(rec, tagField)
		if !ok || !norm.Contains(record.Stringify(tagVal), *t) {
			return false
		}
	}
	for _, f := range q.Filters() {
		if !pathMatch(rec, f.Path(), f.Param(), f.Value()) {
			return false
		}
	}
	return true
}

// pathMatch walks path through cur, then applies the optional param
// selection and the optional value substring check.
//
// Walking: maps descend by normalized key; lists broadcast — the match
// succeeds iff any item satisfies the same remaining path; a scalar with
// path segments left fails.
func pathMatch(cur record.Value, path []string, param, value *string) bool {
	for i, seg := range path {
		switch cur.Kind() {
		case record.KindMap:
			next, ok := lookupField(cur, seg)
			if !ok {
				return false
			}
			cur = next
		case record.KindList:
			rest := path[i:]
			for _, item := range cur.Items() {
				if pathMatch(item, rest, param, value) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}

	if param != nil {
		switch cur.Kind() {
		case record.KindMap:
			next, ok := lookupField(cur, *param)
			if !ok {
				return false
			}
			cur = next
		case record.KindList:
			// Terminal check: any map item carrying the param key whose
			// value (if required) contains the query value.
			for _, item := range cur.Items() {
				if item.Kind() != record.KindMap {
					continue
				}
				sub, ok := lookupField(item, *param)
				if !ok {
					continue
				}
				if value == nil || norm.Contains(record.Stringify(sub), *value) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}

	if value != nil {
		return norm.Contains(record.Stringify(cur), *value)
	}
	// A bare path asserts reachability; any value counts, empty included.
	return true
}

// lookupField finds a map entry by normalized key. An exact hit wins;
// otherwise the keys are compared in normalized form.
func lookupField(v record.Value, key string) (record.Value, bool) {
	if v.Kind() != record.KindMap {
		return record.Value{}, false
	}
	fields := v.Fields()
	if val, ok := fields[key]; ok {
		return val, true
	}
	want := norm.Normalize(key)
	for k, val := range fields {
		if norm.Normalize(k) == want {
			return val, true
		}
	}
	return record.Value{}, false
}
