package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotScalar is returned when a JSON value is an object or array.
var ErrNotScalar = errors.New("json value is not a scalar")

// DecodeScalar decodes a JSON scalar into one of nil, string, float64 or bool.
// Empty input and null both decode to nil. Objects and arrays are rejected
// with ErrNotScalar.
func DecodeScalar(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	switch trimmed[0] {
	case '{', '[':
		return nil, ErrNotScalar
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("decode string: %w", err)
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return nil, fmt.Errorf("decode bool: %w", err)
		}
		return b, nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, fmt.Errorf("decode number: %w", err)
	}
	return f, nil
}
