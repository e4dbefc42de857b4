package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Pattern is a case-insensitive regular expression filter value.
type Pattern struct {
	Expr string
	re   *regexp.Regexp
}

// NewPattern compiles expr as a case-insensitive pattern.
func NewPattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return &Pattern{Expr: expr, re: re}, nil
}

// MatchString reports whether s contains a match of the pattern.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// MarshalJSON encodes the pattern as a {"$regex", "$options"} object.
func (p *Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"$regex": p.Expr, "$options": "i"})
}

func (p *Pattern) String() string {
	return "/" + p.Expr + "/i"
}

// Filter maps dotted field paths to a literal value or a *Pattern.
// All entries must match for a document to match.
type Filter map[string]any

// Match reports whether doc satisfies every entry of the filter.
// A literal also matches when the field is an array containing it,
// and a nil literal matches a missing field.
func (f Filter) Match(doc Document) bool {
	for field, want := range f {
		got, found := Lookup(doc, field)

		switch w := want.(type) {
		case *Pattern:
			if !matchPattern(w, got) {
				return false
			}
		default:
			if !found {
				if want != nil {
					return false
				}
				continue
			}
			if !matchLiteral(w, got) {
				return false
			}
		}
	}
	return true
}

// Lookup resolves a dotted path inside doc.
// Path segments that cross an array collect the values from each element.
func Lookup(doc Document, path string) (any, bool) {
	return lookup(map[string]any(doc), strings.Split(path, "."))
}

func lookup(v any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return v, true
	}

	switch t := v.(type) {
	case map[string]any:
		next, ok := t[segments[0]]
		if !ok {
			return nil, false
		}
		return lookup(next, segments[1:])
	case Document:
		return lookup(map[string]any(t), segments)
	case []any:
		var out []any
		for _, elem := range t {
			if got, ok := lookup(elem, segments); ok {
				out = append(out, got)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	}
	return nil, false
}

func matchLiteral(want, got any) bool {
	if reflect.DeepEqual(want, got) {
		return true
	}
	if arr, ok := got.([]any); ok {
		for _, elem := range arr {
			if matchLiteral(want, elem) {
				return true
			}
		}
	}
	return false
}

func matchPattern(p *Pattern, got any) bool {
	switch t := got.(type) {
	case string:
		return p.MatchString(t)
	case []any:
		for _, elem := range t {
			if matchPattern(p, elem) {
				return true
			}
		}
	}
	return false
}
