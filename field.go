package calfields

import "fmt"

// Field is one of the canonical calendar/time fields.
type Field uint8

const (
	FieldYear Field = iota
	FieldMonth
	FieldMonthCode
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
	FieldMillisecond
	FieldMicrosecond
	FieldNanosecond
	FieldOffset
	FieldEra
	FieldEraYear
	FieldTimeZone

	fieldCount = iota
)

// ConversionRule says how a defined property value is converted.
type ConversionRule uint8

const (
	RuleInteger         ConversionRule = iota // ToIntegerWithTruncation.
	RulePositiveInteger                       // ToPositiveIntegerWithTruncation.
	RuleString                                // ToPrimitive, then require a string.
	RuleNone                                  // Forwarded unconverted.
)

func (r ConversionRule) String() string {
	switch r {
	case RuleInteger:
		return "integer"
	case RulePositiveInteger:
		return "positive-integer"
	case RuleString:
		return "string"
	case RuleNone:
		return "none"
	}
	return "unknown"
}

type fieldInfo struct {
	name string
	key  FieldKey
	rule ConversionRule
	// zeroDefault marks the time-unit fields, which default to 0 instead of
	// undefined.
	zeroDefault bool
}

var fieldTable = buildFieldTable()

func buildFieldTable() [fieldCount]fieldInfo {
	t := [fieldCount]fieldInfo{
		FieldYear:        {name: "year", rule: RuleInteger},
		FieldMonth:       {name: "month", rule: RulePositiveInteger},
		FieldMonthCode:   {name: "monthCode", rule: RuleString},
		FieldDay:         {name: "day", rule: RulePositiveInteger},
		FieldHour:        {name: "hour", rule: RuleInteger, zeroDefault: true},
		FieldMinute:      {name: "minute", rule: RuleInteger, zeroDefault: true},
		FieldSecond:      {name: "second", rule: RuleInteger, zeroDefault: true},
		FieldMillisecond: {name: "millisecond", rule: RuleInteger, zeroDefault: true},
		FieldMicrosecond: {name: "microsecond", rule: RuleInteger, zeroDefault: true},
		FieldNanosecond:  {name: "nanosecond", rule: RuleInteger, zeroDefault: true},
		FieldOffset:      {name: "offset", rule: RuleString},
		FieldEra:         {name: "era", rule: RuleString},
		FieldEraYear:     {name: "eraYear", rule: RuleInteger},
		FieldTimeZone:    {name: "timeZone", rule: RuleNone},
	}
	for f := range t {
		t[f].key = StringKey(t[f].name)
	}
	return t
}

// fieldsByKey resolves canonical keys back to their Field.
var fieldsByKey = func() map[FieldKey]Field {
	m := make(map[FieldKey]Field, fieldCount)
	for f := range fieldTable {
		m[fieldTable[f].key] = Field(f)
	}
	return m
}()

func (f Field) info() *fieldInfo {
	if int(f) >= fieldCount {
		panic(fmt.Sprintf("calfields: invalid field %d", uint8(f)))
	}
	return &fieldTable[f]
}

// AllFields lists every canonical field in declaration order.
func AllFields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// String returns the display name, e.g. "monthCode".
func (f Field) String() string {
	if int(f) >= fieldCount {
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
	return fieldTable[f].name
}

// Key returns the interned property key of f.
func (f Field) Key() FieldKey { return f.info().key }

// Rule returns the conversion rule applied to defined values of f.
func (f Field) Rule() ConversionRule { return f.info().rule }

// Default returns the value used when f is undefined: 0 for the six time-unit
// fields, nil (undefined) for the others.
func (f Field) Default() any {
	if f.info().zeroDefault {
		return float64(0)
	}
	return nil
}

// FieldForKey maps a key back to its canonical field.
func FieldForKey(k FieldKey) (Field, bool) {
	f, ok := fieldsByKey[k]
	return f, ok
}

// ParseField looks a field up by display name.
func ParseField(name string) (Field, bool) { return FieldForKey(StringKey(name)) }

// Convert applies f's conversion rule to a defined value. Numeric fields
// yield float64, text fields string and timeZone the value unchanged.
func (f Field) Convert(v any) (any, error) {
	switch f.Rule() {
	case RuleInteger:
		n, err := ToIntegerWithTruncation(v)
		if err != nil {
			return nil, f.conversionIssue(err)
		}
		return n, nil
	case RulePositiveInteger:
		n, err := ToPositiveIntegerWithTruncation(v)
		if err != nil {
			return nil, f.conversionIssue(err)
		}
		return n, nil
	case RuleString:
		s, err := ToPrimitiveAndRequireString(v)
		if err != nil {
			return nil, f.conversionIssue(err)
		}
		return s, nil
	case RuleNone:
		// NB: timeZone has no conversion function.
		return v, nil
	}
	panic("calfields: invalid conversion rule")
}
