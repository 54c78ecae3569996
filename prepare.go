package calfields

import (
	"context"

	"go.uber.org/zap"

	"github.com/reoring/calfields/i18n"
)

// readField performs the single live read of k from bag. Errors raised by the
// bag surface as CodePropertyAccess unless they already are Issues.
func readField(ctx context.Context, bag Bag, k FieldKey) (any, error) {
	v, err := bag.Get(ctx, k)
	if err == nil {
		return v, nil
	}
	if _, ok := AsIssues(err); ok {
		return nil, err
	}
	return nil, Issues{k.issue(CodePropertyAccess, "property_access", err)}
}

func missingRequired(k FieldKey) error {
	return Issues{k.issue(CodeMissingRequired, "missing_required", nil)}
}

func defineField(out *OrderedBag, k FieldKey, v any) error {
	if err := out.Define(k, v); err != nil {
		return Issues{k.issue(CodePropertyAccess, "property_access", err)}
	}
	return nil
}

func logFailure(l *zap.Logger, mode string, n int, err error) {
	code := ""
	if iss, ok := AsIssues(err); ok && len(iss) > 0 {
		code = iss[0].Code
	}
	l.Debug("prepare failed", zap.String("mode", mode), zap.Int("fields", n), zap.String("code", code), zap.Error(err))
}

// PrepareTyped reads every key of fieldNames from bag, once and in ascending
// order, and fills a TemporalFields record. Defined values are converted by
// their field's rule. Undefined values fail with CodeMissingRequired when the
// key is in required and take the field default otherwise. Keys that are not
// canonical fields are read but not recorded.
func PrepareTyped(ctx context.Context, bag Bag, fieldNames, required FieldNameSet) (TemporalFields, error) {
	l := LoggerFrom(ctx)
	var rec TemporalFields
	for _, k := range fieldNames.keys {
		v, err := readField(ctx, bag, k)
		if err != nil {
			logFailure(l, "typed", fieldNames.Len(), err)
			return TemporalFields{}, err
		}
		f, canonical := FieldForKey(k)
		if !canonical {
			continue
		}
		if v == nil {
			if required.Contains(k) {
				err := missingRequired(k)
				logFailure(l, "typed", fieldNames.Len(), err)
				return TemporalFields{}, err
			}
			rec.set(f, f.Default())
			continue
		}
		cv, err := f.Convert(v)
		if err != nil {
			logFailure(l, "typed", fieldNames.Len(), err)
			return TemporalFields{}, err
		}
		rec.set(f, cv)
	}
	l.Debug("prepared", zap.String("mode", "typed"), zap.Int("fields", fieldNames.Len()))
	return rec, nil
}

// PrepareGeneric reads every key of fieldNames from bag and defines it on a
// fresh OrderedBag in ascending key order. Canonical keys are converted when
// defined and defaulted when not; other keys are copied unchanged, undefined
// values included. No key is required.
func PrepareGeneric(ctx context.Context, bag Bag, fieldNames FieldNameSet) (*OrderedBag, error) {
	return prepareGeneric(ctx, "generic", bag, fieldNames, FieldNameSet{})
}

// PrepareGenericRequired is PrepareGeneric that fails with CodeMissingRequired
// when a canonical key listed in required is undefined.
func PrepareGenericRequired(ctx context.Context, bag Bag, fieldNames, required FieldNameSet) (*OrderedBag, error) {
	return prepareGeneric(ctx, "required", bag, fieldNames, required)
}

func prepareGeneric(ctx context.Context, mode string, bag Bag, fieldNames, required FieldNameSet) (*OrderedBag, error) {
	l := LoggerFrom(ctx)
	out := NewOrderedBag()
	fail := func(err error) (*OrderedBag, error) {
		logFailure(l, mode, fieldNames.Len(), err)
		return nil, err
	}
	for _, k := range fieldNames.keys {
		v, err := readField(ctx, bag, k)
		if err != nil {
			return fail(err)
		}
		if f, ok := FieldForKey(k); ok {
			if v != nil {
				if v, err = f.Convert(v); err != nil {
					return fail(err)
				}
			} else {
				if required.Contains(k) {
					return fail(missingRequired(k))
				}
				v = f.Default()
			}
		}
		if err := defineField(out, k, v); err != nil {
			return fail(err)
		}
	}
	l.Debug("prepared", zap.String("mode", mode), zap.Int("fields", fieldNames.Len()), zap.Int("defined", out.Len()))
	return out, nil
}

// PreparePartial reads every key of fieldNames from bag and copies only the
// defined ones, converted when canonical, to a fresh OrderedBag. It fails with
// CodeNoRecognizedFields when no key was defined.
func PreparePartial(ctx context.Context, bag Bag, fieldNames FieldNameSet) (*OrderedBag, error) {
	l := LoggerFrom(ctx)
	out := NewOrderedBag()
	fail := func(err error) (*OrderedBag, error) {
		logFailure(l, "partial", fieldNames.Len(), err)
		return nil, err
	}
	seen := false
	for _, k := range fieldNames.keys {
		v, err := readField(ctx, bag, k)
		if err != nil {
			return fail(err)
		}
		if v == nil {
			continue
		}
		seen = true
		if f, ok := FieldForKey(k); ok {
			if v, err = f.Convert(v); err != nil {
				return fail(err)
			}
		}
		if err := defineField(out, k, v); err != nil {
			return fail(err)
		}
	}
	if !seen {
		return fail(singleIssue(CodeNoRecognizedFields, i18n.T("no_recognized_fields", nil)))
	}
	l.Debug("prepared", zap.String("mode", "partial"), zap.Int("fields", fieldNames.Len()), zap.Int("defined", out.Len()))
	return out, nil
}
