// Package wideint normalizes the different wire shapes a 64-bit block height or
// block number can arrive in into a single uint64.
package wideint

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// MaxSafe is the largest integer a JSON consumer using IEEE-754 doubles can
// represent exactly (2^53 - 1).
const MaxSafe uint64 = 1<<53 - 1

var (
	// ErrInvalidNumericFormat is returned when a value matches none of the recognised numeric shapes.
	ErrInvalidNumericFormat = errors.New("invalid numeric format")
)

// Split is the legacy encoding of a 64-bit unsigned integer as two signed 32-bit words.
type Split struct {
	Low  int32 `json:"low"`
	High int32 `json:"high"`
}

// Uint64 reconstructs the value as (high << 32) | low, both words read as unsigned.
// A zero low word is a legitimate value and gets no special treatment.
func (s Split) Uint64() uint64 {
	return uint64(uint32(s.High))<<32 | uint64(uint32(s.Low))
}

// ToSplit is the inverse of Split.Uint64.
func ToSplit(v uint64) Split {
	return Split{
		Low:  int32(uint32(v)),
		High: int32(uint32(v >> 32)),
	}
}

// IsSafe reports whether v survives a round trip through a JSON number.
func IsSafe(v uint64) bool {
	return v <= MaxSafe
}

// Normalize converts v into a canonical uint64. Shapes are tried in order:
// native numbers within the safe range, decimal strings, then Split pairs
// (including maps decoded from JSON that carry exactly "low" and "high").
func Normalize(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int64:
		return fromSigned(n)
	case int32:
		return fromSigned(int64(n))
	case int16:
		return fromSigned(int64(n))
	case int8:
		return fromSigned(int64(n))
	case int:
		return fromSigned(int64(n))
	case float64:
		return fromFloat(n)
	case float32:
		return fromFloat(float64(n))
	case json.Number:
		return fromDecimal(n.String())
	case string:
		return fromDecimal(n)
	case Split:
		return n.Uint64(), nil
	case *Split:
		if n == nil {
			return 0, fmt.Errorf("%w: nil split value", ErrInvalidNumericFormat)
		}
		return n.Uint64(), nil
	case map[string]any:
		split, err := SplitFromMap(n)
		if err != nil {
			return 0, err
		}
		return split.Uint64(), nil
	case nil:
		return 0, fmt.Errorf("%w: nil value", ErrInvalidNumericFormat)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidNumericFormat, v)
	}
}

// SplitFromMap reads a {low, high} pair out of a generic JSON object. Both words
// must be present, integral and fit in 32 bits (either signed or unsigned
// representation is accepted); no other keys are allowed.
func SplitFromMap(m map[string]any) (Split, error) {
	if len(m) != 2 {
		return Split{}, fmt.Errorf("%w: expected exactly low and high, got %d keys", ErrInvalidNumericFormat, len(m))
	}
	low, err := word(m, "low")
	if err != nil {
		return Split{}, err
	}
	high, err := word(m, "high")
	if err != nil {
		return Split{}, err
	}

	return Split{Low: low, High: high}, nil
}

func word(m map[string]any, key string) (int32, error) {
	raw, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q word", ErrInvalidNumericFormat, key)
	}

	var w int64
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %q word %v is not integral", ErrInvalidNumericFormat, key, n)
		}
		w = int64(n)
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q word: %w", ErrInvalidNumericFormat, key, err)
		}
		w = parsed
	case int:
		w = int64(n)
	case int32:
		w = int64(n)
	case int64:
		w = n
	default:
		return 0, fmt.Errorf("%w: %q word has unsupported type %T", ErrInvalidNumericFormat, key, raw)
	}

	if w < math.MinInt32 || w > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %q word %d overflows 32 bits", ErrInvalidNumericFormat, key, w)
	}
	return int32(uint32(w)), nil
}

func fromSigned(n int64) (uint64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrInvalidNumericFormat, n)
	}
	return uint64(n), nil
}

func fromFloat(f float64) (uint64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidNumericFormat, f)
	}
	if f < 0 || f > float64(MaxSafe) {
		return 0, fmt.Errorf("%w: %v is outside the safe integer range", ErrInvalidNumericFormat, f)
	}
	return uint64(f), nil
}

func fromDecimal(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidNumericFormat)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidNumericFormat, s)
		}
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidNumericFormat, s, err)
	}
	return v, nil
}
