package calfields

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/calfields/i18n"
)

// NullValue is the type of Null.
type NullValue struct{}

// Null is an explicit null property value. A nil interface value means
// undefined (absent).
var Null = NullValue{}

func (NullValue) String() string { return "null" }

// MarshalJSON renders null.
func (NullValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalYAML renders null.
func (NullValue) MarshalYAML() (any, error) { return nil, nil }

// Hint is the preferred type passed to Primitive.ToPrimitive.
type Hint uint8

const (
	HintNumber Hint = iota
	HintString
)

// Primitive is implemented by object values that can convert themselves to a
// primitive, e.g. objects with valueOf/toString hooks. The hook may run
// arbitrary logic and fail.
type Primitive interface {
	ToPrimitive(hint Hint) (any, error)
}

// conversionError is returned by the standalone converters; Field.Convert
// turns it into an Issue anchored at the field.
type conversionError struct {
	code    string // CodeInvalidValue or CodeTypeError
	msgCode string // i18n message code
	value   any
	cause   error
}

func (e *conversionError) Error() string {
	return i18n.T(e.msgCode, map[string]string{"key": "value"})
}

func (e *conversionError) Unwrap() error { return e.cause }

func rangeError(v any) error {
	return &conversionError{code: CodeInvalidValue, msgCode: "invalid_value", value: v}
}

func positiveError(v any) error {
	return &conversionError{code: CodeInvalidValue, msgCode: "invalid_positive", value: v}
}

func numberTypeError(v any) error {
	return &conversionError{code: CodeTypeError, msgCode: "type_error_number", value: v}
}

func stringTypeError(v any) error {
	return &conversionError{code: CodeTypeError, msgCode: "type_error", value: v}
}

// conversionIssue anchors a converter failure at f. Failures raised by
// Primitive hooks pass through when they already are Issues.
func (f Field) conversionIssue(err error) error {
	var ce *conversionError
	if !errors.As(err, &ce) {
		if _, ok := AsIssues(err); ok {
			return err
		}
		return Issues{f.Key().issue(CodePropertyAccess, "property_access", err)}
	}
	it := f.Key().issue(ce.code, ce.msgCode, ce.cause)
	if ce.value != nil {
		it.Params = map[string]any{"value": ce.value}
	}
	return Issues{it}
}

// issue builds an Issue anchored at k with a localized message.
func (k FieldKey) issue(code, msgCode string, cause error) Issue {
	q := k.Quote()
	return Issue{
		Path:    k.pointer(),
		Code:    code,
		Message: i18n.T(msgCode, map[string]string{"key": q}),
		Key:     q,
		Cause:   cause,
	}
}

// ToIntegerWithTruncation converts v to a number and truncates it toward
// zero. NaN and infinities are rejected with CodeInvalidValue.
func ToIntegerWithTruncation(v any) (float64, error) {
	n, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, rangeError(v)
	}
	t := math.Trunc(n)
	if t == 0 {
		t = 0 // drop the sign of -0
	}
	return t, nil
}

// ToPositiveIntegerWithTruncation is ToIntegerWithTruncation that additionally
// rejects results <= 0.
func ToPositiveIntegerWithTruncation(v any) (float64, error) {
	n, err := ToIntegerWithTruncation(v)
	if err != nil {
		var ce *conversionError
		if errors.As(err, &ce) && ce.code == CodeInvalidValue {
			return 0, positiveError(v)
		}
		return 0, err
	}
	if n <= 0 {
		return 0, positiveError(v)
	}
	return n, nil
}

// ToPrimitiveAndRequireString converts v to a primitive preferring strings and
// requires the result to be a string.
func ToPrimitiveAndRequireString(v any) (string, error) {
	p, err := ToPrimitive(v, HintString)
	if err != nil {
		return "", err
	}
	s, ok := p.(string)
	if !ok {
		return "", stringTypeError(v)
	}
	return s, nil
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, NullValue, bool, string, json.Number, *Symbol, *big.Int,
		float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// ToPrimitive returns primitives unchanged and asks Primitive implementations
// to convert themselves. Other values behave like objects without conversion
// hooks and fail with CodeTypeError.
func ToPrimitive(v any, hint Hint) (any, error) {
	if isPrimitive(v) {
		return v, nil
	}
	p, ok := v.(Primitive)
	if !ok {
		if hint == HintString {
			return nil, stringTypeError(v)
		}
		return nil, numberTypeError(v)
	}
	out, err := p.ToPrimitive(hint)
	if err != nil {
		return nil, err
	}
	if !isPrimitive(out) {
		if hint == HintString {
			return nil, stringTypeError(v)
		}
		return nil, numberTypeError(v)
	}
	return out, nil
}

// ToNumber converts v to a float64 following the host's number conversion:
// undefined is NaN, null and false are 0, true is 1 and strings are parsed as
// numeric literals (NaN when malformed). Symbols, big integers and objects
// without a Primitive hook fail with CodeTypeError.
func ToNumber(v any) (float64, error) {
	p, err := ToPrimitive(v, HintNumber)
	if err != nil {
		return 0, err
	}
	switch n := p.(type) {
	case nil:
		return math.NaN(), nil
	case NullValue:
		return 0, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		return stringToNumber(n), nil
	case json.Number:
		return stringToNumber(string(n)), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	// *Symbol and *big.Int
	return 0, numberTypeError(v)
}

func isJSSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u1680',
		'\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

func stringToNumber(s string) float64 {
	s = strings.TrimFunc(s, isJSSpace)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadixInteger(s[2:], base)
		}
	}
	if !isDecimalLiteral(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func parseRadixInteger(digits string, base int) float64 {
	for i := 0; i < len(digits); i++ {
		if c := digits[i]; c == '_' || c == '+' || c == '-' {
			return math.NaN()
		}
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

// isDecimalLiteral matches [+-] (digits [. digits] | . digits) [(e|E) [+-] digits].
func isDecimalLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
