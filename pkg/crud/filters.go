package crud

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/crudify/pkg/model"
)

// ParseFilters decodes the JSON encoded filters query value.
// Top-level string values written as /expr/ become case-insensitive patterns.
// An empty value yields an empty filter.
func ParseFilters(raw string) (model.Filter, error) {
	filter := model.Filter{}
	if strings.TrimSpace(raw) == "" {
		return filter, nil
	}

	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, fmt.Errorf("invalid filters: %w", err)
	}
	if filter == nil {
		return model.Filter{}, nil
	}

	for field, value := range filter {
		s, ok := value.(string)
		if !ok || !isPattern(s) {
			continue
		}
		p, err := model.NewPattern(s[1 : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid filters: %s: %w", field, err)
		}
		filter[field] = p
	}
	return filter, nil
}

func isPattern(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/")
}
