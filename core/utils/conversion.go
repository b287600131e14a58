package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt64 converts integers and decimal strings to int64. It reports an
// error for anything else, including strings that do not fit.
func ToInt64(val any) (int64, error) {
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q", v)
		}
		return i, nil
	case []byte:
		return ToInt64(string(v))
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", val)
	}
}

// ToInt32 is ToInt64 restricted to the int32 range.
func ToInt32(val any) (int32, error) {
	i, err := ToInt64(val)
	if err != nil {
		return 0, err
	}
	if i < -1<<31 || i > 1<<31-1 {
		return 0, fmt.Errorf("integer %d out of range", i)
	}
	return int32(i), nil
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32:
		i, _ := ToInt64(v)
		return i == 1
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}
