package dao

import (
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/a1s/gridbuf/internal/model1"
)

// Describe returns the RFC 6902 patch turning old into new, with fields keyed
// by their header column name.
func Describe(h model1.Header, old, new model1.Row) (string, error) {
	patch, err := jsondiff.Compare(toDocument(h, old), toDocument(h, new))
	if err != nil {
		return "", fmt.Errorf("failed to generate patch: %w", err)
	}
	if len(patch) == 0 {
		return "", nil
	}

	bytes, err := json.Marshal(patch)
	if err != nil {
		return "", fmt.Errorf("failed to marshal patch: %w", err)
	}
	return string(bytes), nil
}

func toDocument(h model1.Header, r model1.Row) map[string]any {
	doc := make(map[string]any, len(r.Fields)+1)
	doc[IDColumn] = r.ID
	for i, v := range r.Fields {
		name := fmt.Sprintf("col%d", i)
		if i < len(h) {
			name = h[i].Name
		}
		doc[name] = v
	}
	return doc
}
