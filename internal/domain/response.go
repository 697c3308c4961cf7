package domain

import (
	"encoding/json"
	"fmt"
)

// CheckResponse validates a decoded API answer and returns its homeworks list.
// An empty list is valid.
func CheckResponse(resp map[string]any) ([]any, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: response is not an object", ErrWrongShape)
	}
	raw, ok := resp["homeworks"]
	if !ok {
		return nil, fmt.Errorf("%w: homeworks", ErrMissingField)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: homeworks is %T, want list", ErrWrongShape, raw)
	}
	return list, nil
}

// CurrentDate returns the server timestamp to use as the next cursor.
func CurrentDate(resp map[string]any) (int64, bool) {
	switch v := resp["current_date"].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		return int64(v), v == float64(int64(v))
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
