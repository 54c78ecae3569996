package calfields

import (
	"errors"
	"math"
	"math/big"
	"testing"

	json "github.com/goccy/go-json"
)

type primitiveFunc func(Hint) (any, error)

func (f primitiveFunc) ToPrimitive(h Hint) (any, error) { return f(h) }

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{Null, 0},
		{true, 1},
		{false, 0},
		{"", 0},
		{"  42  ", 42},
		{" \t3.5\n", 3.5},
		{"-0.5e1", -5},
		{".5", 0.5},
		{"5.", 5},
		{"0x1F", 31},
		{"0o17", 15},
		{"0b101", 5},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{int64(7), 7},
		{uint8(3), 3},
		{float32(1.5), 1.5},
		{json.Number("12"), 12},
		{primitiveFunc(func(Hint) (any, error) { return "9", nil }), 9},
	}
	for _, tc := range cases {
		got, err := ToNumber(tc.in)
		if err != nil {
			t.Fatalf("ToNumber(%#v): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ToNumber(%#v) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestToNumber_NaN(t *testing.T) {
	for _, in := range []any{nil, "abc", "1_000", "0x", "0x-1", "-0x1", "1e", "e5", "infinity", "+-1", "1 2"} {
		got, err := ToNumber(in)
		if err != nil {
			t.Fatalf("ToNumber(%#v): %v", in, err)
		}
		if !math.IsNaN(got) {
			t.Fatalf("ToNumber(%#v) = %v; want NaN", in, got)
		}
	}
}

func TestToNumber_TypeErrors(t *testing.T) {
	for _, in := range []any{NewSymbol("s"), big.NewInt(1), []any{1}, struct{}{}, NewOrderedBag()} {
		_, err := ToNumber(in)
		var ce *conversionError
		if !errors.As(err, &ce) || ce.code != CodeTypeError {
			t.Fatalf("ToNumber(%#v): want type error, got %v", in, err)
		}
	}
}

func TestToIntegerWithTruncation(t *testing.T) {
	cases := map[any]float64{
		3.9:    3,
		-3.9:   -3,
		-0.2:   0,
		"12.7": 12,
		true:   1,
	}
	for in, want := range cases {
		got, err := ToIntegerWithTruncation(in)
		if err != nil || got != want {
			t.Fatalf("ToIntegerWithTruncation(%v) = %v, %v; want %v", in, got, err, want)
		}
		if got == 0 && math.Signbit(got) {
			t.Fatalf("ToIntegerWithTruncation(%v) returned -0", in)
		}
	}
	for _, in := range []any{"abc", math.NaN(), math.Inf(1), "Infinity", nil} {
		if _, err := ToIntegerWithTruncation(in); err == nil {
			t.Fatalf("ToIntegerWithTruncation(%v): want error", in)
		}
	}
}

func TestToPositiveIntegerWithTruncation(t *testing.T) {
	if got, err := ToPositiveIntegerWithTruncation(3.9); err != nil || got != 3 {
		t.Fatalf("got %v, %v", got, err)
	}
	for _, in := range []any{0, -1, 0.5, "abc", math.Inf(1)} {
		_, err := ToPositiveIntegerWithTruncation(in)
		var ce *conversionError
		if !errors.As(err, &ce) || ce.code != CodeInvalidValue {
			t.Fatalf("ToPositiveIntegerWithTruncation(%v): want invalid value, got %v", in, err)
		}
	}
}

func TestToPrimitiveAndRequireString(t *testing.T) {
	if s, err := ToPrimitiveAndRequireString("M03"); err != nil || s != "M03" {
		t.Fatalf("got %q, %v", s, err)
	}
	hook := primitiveFunc(func(h Hint) (any, error) {
		if h != HintString {
			t.Fatalf("want string hint")
		}
		return "M05L", nil
	})
	if s, err := ToPrimitiveAndRequireString(hook); err != nil || s != "M05L" {
		t.Fatalf("got %q, %v", s, err)
	}
	for _, in := range []any{3, true, Null, NewSymbol("x"), []any{}} {
		_, err := ToPrimitiveAndRequireString(in)
		var ce *conversionError
		if !errors.As(err, &ce) || ce.code != CodeTypeError {
			t.Fatalf("ToPrimitiveAndRequireString(%#v): want type error, got %v", in, err)
		}
	}
}

func TestToPrimitive_HookFailure(t *testing.T) {
	boom := errors.New("boom")
	_, err := ToPrimitive(primitiveFunc(func(Hint) (any, error) { return nil, boom }), HintNumber)
	if !errors.Is(err, boom) {
		t.Fatalf("want hook error, got %v", err)
	}
	_, err = ToPrimitive(primitiveFunc(func(Hint) (any, error) { return []any{}, nil }), HintNumber)
	if err == nil {
		t.Fatalf("non-primitive hook result must fail")
	}
}

func TestFieldConvert(t *testing.T) {
	if v, err := FieldMonth.Convert(3.9); err != nil || v != 3.0 {
		t.Fatalf("month 3.9 = %v, %v", v, err)
	}
	for _, in := range []any{0, -1, "abc"} {
		_, err := FieldMonth.Convert(in)
		if !HasCode(err, CodeInvalidValue) {
			t.Fatalf("month %v: want invalid_value, got %v", in, err)
		}
		iss, _ := AsIssues(err)
		if iss[0].Path != "/month" || iss[0].Params["value"] != in {
			t.Fatalf("unexpected issue %+v", iss[0])
		}
	}
	if v, err := FieldYear.Convert(-12.5); err != nil || v != -12.0 {
		t.Fatalf("year -12.5 = %v, %v", v, err)
	}
	if _, err := FieldMonthCode.Convert(3); !HasCode(err, CodeTypeError) {
		t.Fatalf("monthCode 3: want type_error, got %v", err)
	}
	if _, err := FieldYear.Convert(NewSymbol("y")); !HasCode(err, CodeTypeError) {
		t.Fatalf("year symbol: want type_error, got %v", err)
	}
	tz := struct{ ID string }{"UTC"}
	if v, err := FieldTimeZone.Convert(tz); err != nil || v != tz {
		t.Fatalf("timeZone must pass through, got %v, %v", v, err)
	}
}

func TestFieldConvert_HookErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := FieldDay.Convert(primitiveFunc(func(Hint) (any, error) { return nil, boom }))
	if !HasCode(err, CodePropertyAccess) || !errors.Is(err, boom) {
		t.Fatalf("want property_access wrapping boom, got %v", err)
	}

	inner := Issues{{Path: "/x", Code: CodeInvalidValue}}
	_, err = FieldDay.Convert(primitiveFunc(func(Hint) (any, error) { return nil, inner }))
	iss, ok := AsIssues(err)
	if !ok || iss[0].Path != "/x" {
		t.Fatalf("issues from hooks must pass through, got %v", err)
	}
}

func TestFieldTable(t *testing.T) {
	all := AllFields()
	if len(all) != 14 {
		t.Fatalf("want 14 fields, got %d", len(all))
	}
	zero := map[Field]bool{FieldHour: true, FieldMinute: true, FieldSecond: true, FieldMillisecond: true, FieldMicrosecond: true, FieldNanosecond: true}
	for _, f := range all {
		got, ok := FieldForKey(f.Key())
		if !ok || got != f {
			t.Fatalf("FieldForKey(%v) = %v, %v", f.Key(), got, ok)
		}
		if p, ok := ParseField(f.String()); !ok || p != f {
			t.Fatalf("ParseField(%q) = %v, %v", f.String(), p, ok)
		}
		if zero[f] != (f.Default() != nil) {
			t.Fatalf("%v default = %v", f, f.Default())
		}
	}
	if FieldMonth.Rule() != RulePositiveInteger || FieldEra.Rule() != RuleString || FieldTimeZone.Rule() != RuleNone {
		t.Fatalf("unexpected rules")
	}
	if _, ok := ParseField("weekday"); ok {
		t.Fatalf("weekday is not canonical")
	}
}
