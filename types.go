package calfields

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Ignore:
		return "ignore"
	case Warn:
		return "warn"
	case Error:
		return "error"
	}
	return "unknown"
}

// ParseSeverity maps "ignore", "warn" and "error" to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "ignore", "":
		return Ignore, true
	case "warn":
		return Warn, true
	case "error":
		return Error, true
	}
	return Ignore, false
}

// Strictness configures enforcement while decoding property bags.
type Strictness struct {
	OnDuplicateKey Severity // Ignore (last wins), Warn (logged) or Error.
}

// DecodeOpt bundles options for DecodeJSONBag and DecodeYAMLBag.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 means unlimited.
	MaxBytes   int64 // 0 means unlimited.
}

// DefaultDecodeOpt returns the defaults: duplicate keys rejected, no limits.
func DefaultDecodeOpt() DecodeOpt {
	return DecodeOpt{Strictness: Strictness{OnDuplicateKey: Error}}
}
