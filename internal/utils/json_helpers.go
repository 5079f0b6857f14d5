package utils

import (
	"bytes"
	"encoding/json"
)

// MarshalMap marshals a map or struct into canonical JSON for jsonb columns.
func MarshalMap(data interface{}) ([]byte, error) {
	// json.Marshal уже сортирует ключи map по умолчанию.
	return json.Marshal(data)
}

// UnmarshalMap unmarshals JSON data into the target, treating empty or null
// input as an empty value instead of an error.
func UnmarshalMap(data []byte, v interface{}) error {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		if m, ok := v.(*map[string]interface{}); ok {
			*m = make(map[string]interface{})
		}
		return nil
	}
	return json.Unmarshal(data, v)
}
