// Package records decodes fetched JSON payloads into typed records.
// The combinator layer never looks inside payload bytes; this is where
// they stop being opaque.
package records

import (
	"encoding/json"
	"fmt"
)

// Post is one record of the demo feed.
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Decode unmarshals a payload holding a single record.
func Decode[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("decoding record: %w", err)
	}
	return out, nil
}

// DecodeList unmarshals a payload holding an array of records.
func DecodeList[T any](data []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding record list: %w", err)
	}
	return out, nil
}
