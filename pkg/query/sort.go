package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SortField is a single ordering criterion.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses a sort expression of comma or space separated field names.
// A "-" prefix sorts descending and a "+" prefix is accepted for ascending.
func ParseSortFields(s string) []SortField {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})

	fields := make([]SortField, 0, len(parts))
	for _, p := range parts {
		desc := strings.HasPrefix(p, "-")
		name := strings.TrimLeft(p, "-+")
		if name == "" {
			continue
		}
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Sort is an ordered list of sort fields. It decodes from either a sort
// expression string ("-createdAt name") or an object whose values are
// 1, -1, "asc", "ascending", "desc" or "descending". Object key order is kept.
type Sort []SortField

// UnmarshalJSON implements json.Unmarshaler.
func (s *Sort) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if data[0] == '"' {
		var expr string
		if err := json.Unmarshal(data, &expr); err != nil {
			return err
		}
		*s = ParseSortFields(expr)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sort must be a string or an object")
	}

	var fields Sort
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)

		var dir any
		if err := dec.Decode(&dir); err != nil {
			return err
		}
		desc, err := descending(dir)
		if err != nil {
			return fmt.Errorf("sort %s: %w", name, err)
		}
		fields = append(fields, SortField{Field: name, Descending: desc})
	}

	*s = fields
	return nil
}

func descending(dir any) (bool, error) {
	switch v := dir.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil || (n != 1 && n != -1) {
			return false, fmt.Errorf("invalid direction %s", v)
		}
		return n == -1, nil
	case string:
		switch strings.ToLower(v) {
		case "asc", "ascending":
			return false, nil
		case "desc", "descending":
			return true, nil
		}
	}
	return false, fmt.Errorf("invalid direction %v", dir)
}
