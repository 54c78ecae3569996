package calfields

// TemporalFields is the typed result of PrepareTyped, one slot per canonical
// field. Undefined numeric and text slots are nil; the time-unit slots
// default to 0. TimeZone holds the raw property value, nil when undefined.
type TemporalFields struct {
	Year        *float64
	Month       *float64
	MonthCode   *string
	Day         *float64
	Hour        float64
	Minute      float64
	Second      float64
	Millisecond float64
	Microsecond float64
	Nanosecond  float64
	Offset      *string
	Era         *string
	EraYear     *float64
	TimeZone    any
}

// Value returns the slot of f in its generic form: float64, string, the raw
// timeZone value, or nil when undefined.
func (r *TemporalFields) Value(f Field) any {
	switch f {
	case FieldYear:
		return derefNumber(r.Year)
	case FieldMonth:
		return derefNumber(r.Month)
	case FieldMonthCode:
		return derefString(r.MonthCode)
	case FieldDay:
		return derefNumber(r.Day)
	case FieldHour:
		return r.Hour
	case FieldMinute:
		return r.Minute
	case FieldSecond:
		return r.Second
	case FieldMillisecond:
		return r.Millisecond
	case FieldMicrosecond:
		return r.Microsecond
	case FieldNanosecond:
		return r.Nanosecond
	case FieldOffset:
		return derefString(r.Offset)
	case FieldEra:
		return derefString(r.Era)
	case FieldEraYear:
		return derefNumber(r.EraYear)
	case FieldTimeZone:
		return r.TimeZone
	}
	panic("calfields: invalid field")
}

// set stores an already converted (or default) value into the slot of f.
func (r *TemporalFields) set(f Field, v any) {
	switch f {
	case FieldYear:
		r.Year = numberPtr(v)
	case FieldMonth:
		r.Month = numberPtr(v)
	case FieldMonthCode:
		r.MonthCode = stringPtr(v)
	case FieldDay:
		r.Day = numberPtr(v)
	case FieldHour:
		r.Hour = v.(float64)
	case FieldMinute:
		r.Minute = v.(float64)
	case FieldSecond:
		r.Second = v.(float64)
	case FieldMillisecond:
		r.Millisecond = v.(float64)
	case FieldMicrosecond:
		r.Microsecond = v.(float64)
	case FieldNanosecond:
		r.Nanosecond = v.(float64)
	case FieldOffset:
		r.Offset = stringPtr(v)
	case FieldEra:
		r.Era = stringPtr(v)
	case FieldEraYear:
		r.EraYear = numberPtr(v)
	case FieldTimeZone:
		r.TimeZone = v
	default:
		panic("calfields: invalid field")
	}
}

// Bag renders the slots named by fieldNames into an OrderedBag, in set order.
// Keys that are not canonical fields are skipped.
func (r *TemporalFields) Bag(fieldNames FieldNameSet) *OrderedBag {
	out := NewOrderedBag()
	for _, k := range fieldNames.keys {
		if f, ok := FieldForKey(k); ok {
			_ = out.Define(k, r.Value(f))
		}
	}
	return out
}

func numberPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	n := v.(float64)
	return &n
}

func stringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func derefNumber(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
