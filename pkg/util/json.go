package util

import (
	"encoding/json"
	"fmt"
)

// PrintPrettyJSON prints v as indented JSON on stdout.
func PrintPrettyJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

// PrintPrettyJSONSlice prints items as an indented JSON array. A nil or empty
// slice prints "[]" rather than "null".
func PrintPrettyJSONSlice[T any](items []T) error {
	if len(items) == 0 {
		fmt.Println("[]")
		return nil
	}
	return PrintPrettyJSON(items)
}
