package mysql

import (
	"encoding/json"
	"fmt"
)

// Recipe ingredients and instructions are stored as JSON arrays in TEXT
// columns, matching how imported recipes arrive.

func stringSliceToJSON(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func jsonToStringSlice(encoded string) ([]string, error) {
	if encoded == "" || encoded == "[]" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("decoding string list: %w", err)
	}
	return values, nil
}
