package calfields

import (
	"context"

	"go.uber.org/zap"
)

// FieldsResolver is implemented by user-defined calendars that extend the
// field list with calendar specific keys. Fields receives the canonical keys
// requested by the caller in ascending order and may return any key list.
type FieldsResolver interface {
	Fields(ctx context.Context, requested []FieldKey) ([]FieldKey, error)
}

// FieldsResolverFunc adapts a function to FieldsResolver.
type FieldsResolverFunc func(ctx context.Context, requested []FieldKey) ([]FieldKey, error)

// Fields calls f.
func (f FieldsResolverFunc) Fields(ctx context.Context, requested []FieldKey) ([]FieldKey, error) {
	return f(ctx, requested)
}

// CalendarFields resolves the field names a calendar reads for the given
// canonical fields. A nil resolver stands for the built-in ISO calendar whose
// answer is the canonical set itself; a resolver's answer is validated with
// SortAndValidate.
func CalendarFields(ctx context.Context, resolver FieldsResolver, fields ...Field) (FieldNameSet, error) {
	set := BuildCanonicalFieldSet(fields...)
	if resolver == nil {
		return set, nil
	}
	keys, err := resolver.Fields(ctx, set.Keys())
	if err != nil {
		if _, ok := AsIssues(err); ok {
			return FieldNameSet{}, err
		}
		return FieldNameSet{}, Issues{{Path: "/", Code: CodePropertyAccess, Message: err.Error(), Cause: err}}
	}
	for _, k := range keys {
		if k.IsZero() {
			return FieldNameSet{}, singleIssue(CodeTypeError, "calendar returned an empty field key")
		}
	}
	out, err := SortAndValidate(keys)
	if err != nil {
		return FieldNameSet{}, err
	}
	LoggerFrom(ctx).Debug("calendar fields resolved", zap.Int("requested", set.Len()), zap.Int("resolved", out.Len()))
	return out, nil
}

// MergeFields merges two property bags the way the ISO calendar does:
// defined properties of additional win over those of fields, and month and
// monthCode override each other as a pair. Undefined values are skipped and
// symbol keys are ignored. The result lists additional's keys first.
func MergeFields(ctx context.Context, fields, additional KeyedBag) (*OrderedBag, error) {
	merged := NewOrderedBag()
	ignored := map[FieldKey]struct{}{}

	keys, err := ownKeys(ctx, additional)
	if err != nil {
		return nil, err
	}
	month, monthCode := FieldMonth.Key(), FieldMonthCode.Key()
	for _, k := range keys {
		v, err := readField(ctx, additional, k)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if err := defineField(merged, k, v); err != nil {
			return nil, err
		}
		if k == month || k == monthCode {
			ignored[month] = struct{}{}
			ignored[monthCode] = struct{}{}
		} else {
			ignored[k] = struct{}{}
		}
	}

	if keys, err = ownKeys(ctx, fields); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if _, skip := ignored[k]; skip {
			continue
		}
		v, err := readField(ctx, fields, k)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if err := defineField(merged, k, v); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// ownKeys lists b's string and index keys.
func ownKeys(ctx context.Context, b KeyedBag) ([]FieldKey, error) {
	keys, err := b.OwnKeys(ctx)
	if err != nil {
		if _, ok := AsIssues(err); ok {
			return nil, err
		}
		return nil, Issues{{Path: "/", Code: CodePropertyAccess, Message: err.Error(), Cause: err}}
	}
	out := keys[:0:0]
	for _, k := range keys {
		if k.Kind() != KindSymbol {
			out = append(out, k)
		}
	}
	return out, nil
}
