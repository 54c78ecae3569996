package calfields

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/reoring/calfields/i18n"
	eng "github.com/reoring/calfields/internal/engine"
	gojsonsrc "github.com/reoring/calfields/source/gojson"
	yamlsrc "github.com/reoring/calfields/source/yaml"
)

// DecodeJSONBag decodes a JSON object into an OrderedBag. Nested objects
// become *OrderedBag, arrays []any, numbers float64 and null Null. Member
// keys go through KeyOf, so "0" is an index key. With no options,
// DefaultDecodeOpt applies.
func DecodeJSONBag(ctx context.Context, data []byte, opts ...DecodeOpt) (*OrderedBag, error) {
	return decodeBag(ctx, "json", data, gojsonsrc.NewBytes, opts)
}

// DecodeYAMLBag is DecodeJSONBag for the first document of a YAML stream.
// Aliases are expanded and non-scalar mapping keys are rejected.
func DecodeYAMLBag(ctx context.Context, data []byte, opts ...DecodeOpt) (*OrderedBag, error) {
	return decodeBag(ctx, "yaml", data, yamlsrc.NewBytes, opts)
}

func decodeBag(ctx context.Context, format string, data []byte, open func([]byte) eng.TokenSource, opts []DecodeOpt) (*OrderedBag, error) {
	opt := DefaultDecodeOpt()
	if len(opts) > 0 {
		opt = opts[0]
	}
	l := LoggerFrom(ctx).With(zap.String("format", format))
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, singleIssue(CodeTruncated, i18n.T(CodeTruncated, nil))
	}

	src := eng.WrapWithEnforcement(open(data), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink: func(si eng.SimpleIssue) {
			if si.Code == CodeDuplicateKey && opt.Strictness.OnDuplicateKey == Warn {
				l.Warn("duplicate key", zap.String("path", si.Path))
			}
		},
	})
	v, err := eng.DecodeOrdered(src)
	if err != nil {
		return nil, decodeIssues(err)
	}
	obj, ok := v.(*eng.Object)
	if !ok {
		return nil, singleIssue(CodeTypeError, "top-level value must be an object")
	}
	bag := fromEngineObject(obj)
	l.Debug("decoded bag", zap.Int("keys", bag.Len()))
	return bag, nil
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	}
	return eng.DupIgnore
}

func decodeIssues(err error) error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: ie.Path, Code: ie.Code, Message: i18n.T(ie.Code, nil) + ": " + ie.Message}}
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil) + ": " + err.Error(), Cause: err}}
}

func fromEngineObject(obj *eng.Object) *OrderedBag {
	bag := NewOrderedBag()
	for i, k := range obj.Keys {
		_ = bag.Define(KeyOf(k), fromEngineValue(obj.Values[i]))
	}
	return bag
}

func fromEngineValue(v any) any {
	switch t := v.(type) {
	case *eng.Object:
		return fromEngineObject(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromEngineValue(e)
		}
		return out
	case eng.Null:
		return Null
	}
	return v
}
