package models

import (
	"encoding/json"
	"fmt"
)

// ToMap converts a result value into a plain map via its JSON form.
func ToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	out := make(map[string]any)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %T into map: %w", v, err)
	}
	return out, nil
}

// FromMap rebuilds a result value from a map produced by ToMap.
func FromMap[T any](m map[string]any) (T, error) {
	var out T
	data, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("failed to marshal map: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal map into %T: %w", out, err)
	}
	return out, nil
}
