package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"recon-manager/core/utils"
)

// ErrUnsupportedKey is returned for key values that have no comparable form.
var ErrUnsupportedKey = errors.New("unsupported key value")

// NormalizeKey converts a cell value into its canonical key string.
// Numbers are canonicalized so that int 3, float 3.0 and the strings "3" and
// "3.0" all produce "3". ok is false for null keys.
func NormalizeKey(val any) (key string, ok bool, err error) {
	switch v := val.(type) {
	case nil:
		return "", false, nil
	case string:
		return normalizeText(v)
	case []byte:
		return normalizeText(string(v))
	case json.Number:
		return normalizeText(v.String())
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.FormatInt(int64(v), 10), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case int32:
		return strconv.FormatInt(int64(v), 10), true, nil
	case int16:
		return strconv.FormatInt(int64(v), 10), true, nil
	case int8:
		return strconv.FormatInt(int64(v), 10), true, nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), true, nil
	case uint64:
		return strconv.FormatUint(v, 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true, nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true, nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true, nil
	case float64:
		return normalizeFloat(v)
	case float32:
		return normalizeFloat(float64(v))
	case time.Time:
		if v.IsZero() {
			return "", false, nil
		}
		return v.UTC().Format(time.RFC3339Nano), true, nil
	case fmt.Stringer:
		return normalizeText(v.String())
	}

	switch reflect.TypeOf(val).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
		return "", false, fmt.Errorf("%w: %T", ErrUnsupportedKey, val)
	}
	return normalizeText(fmt.Sprintf("%v", val))
}

func normalizeText(s string) (string, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false, nil
	}
	if n, ok := canonicalInteger(s); ok {
		return n, true, nil
	}
	if isNumericLiteral(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return normalizeFloat(f)
		}
	}
	return s, true, nil
}

// canonicalInteger strips signs and leading zeros from an integer literal
// without going through float64, so long identifiers keep every digit.
func canonicalInteger(s string) (string, bool) {
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0", true
	}
	if neg {
		return "-" + s, true
	}
	return s, true
}

// isNumericLiteral rejects inputs ParseFloat accepts but users do not mean as
// numbers, such as "inf", "NaN" or hex floats.
func isNumericLiteral(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

func normalizeFloat(f float64) (string, bool, error) {
	if math.IsNaN(f) {
		return "", false, nil
	}
	if math.IsInf(f, 0) {
		return "", false, fmt.Errorf("%w: infinite number", ErrUnsupportedKey)
	}
	return utils.FormatFloat(f), true, nil
}
