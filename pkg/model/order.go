package model

import (
	"cmp"
	"slices"

	"github.com/JaimeStill/crudify/pkg/query"
)

// SortDocuments orders docs in place by fields. The sort is stable,
// so documents that compare equal keep their insertion order.
func SortDocuments(docs []Document, fields []query.SortField) {
	if len(fields) == 0 {
		return
	}

	slices.SortStableFunc(docs, func(a, b Document) int {
		for _, f := range fields {
			av, _ := Lookup(a, f.Field)
			bv, _ := Lookup(b, f.Field)
			c := Compare(av, bv)
			if f.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

// Compare orders two JSON values. Values of different types order by type:
// null, numbers, strings, objects, arrays, booleans.
func Compare(a, b any) int {
	if c := cmp.Compare(rank(a), rank(b)); c != 0 {
		return c
	}

	switch av := a.(type) {
	case float64:
		return cmp.Compare(av, b.(float64))
	case string:
		return cmp.Compare(av, b.(string))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case []any:
		bv := b.([]any)
		for i := 0; i < len(av) && i < len(bv); i++ {
			if c := Compare(av[i], bv[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(av), len(bv))
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case map[string]any, Document:
		return 3
	case []any:
		return 4
	case bool:
		return 5
	default:
		return 6
	}
}
