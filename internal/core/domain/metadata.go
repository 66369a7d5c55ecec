package domain

import (
	"fmt"
	"math"
)

// Metadata is a string-keyed map of scalar values: string, int64 or float64.
type Metadata map[string]any

// Normalize returns a copy with integer values widened to int64 and
// float32 values widened to float64. Any non-scalar value fails with
// ErrConstraintViolation.
func (m Metadata) Normalize() (Metadata, error) {
	out := make(Metadata, len(m))
	for key, value := range m {
		switch v := value.(type) {
		case string:
			out[key] = v
		case int:
			out[key] = int64(v)
		case int8:
			out[key] = int64(v)
		case int16:
			out[key] = int64(v)
		case int32:
			out[key] = int64(v)
		case int64:
			out[key] = v
		case uint8:
			out[key] = int64(v)
		case uint16:
			out[key] = int64(v)
		case uint32:
			out[key] = int64(v)
		case float32:
			f, err := finite(key, float64(v))
			if err != nil {
				return nil, err
			}
			out[key] = f
		case float64:
			f, err := finite(key, v)
			if err != nil {
				return nil, err
			}
			out[key] = f
		default:
			return nil, fmt.Errorf("metadata %q: unsupported value type %T: %w", key, value, ErrConstraintViolation)
		}
	}
	return out, nil
}

func finite(key string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("metadata %q: non-finite number: %w", key, ErrConstraintViolation)
	}
	return v, nil
}
