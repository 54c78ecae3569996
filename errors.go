package calfields

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidValue       = "invalid_value"        // Numeric coercion or range failure.
	CodeTypeError          = "type_error"           // Wrong primitive kind.
	CodeMissingRequired    = "missing_required"     // Required field is undefined.
	CodeDuplicateField     = "duplicate_field"      // Key appears twice in a field list.
	CodeReservedField      = "reserved_field"       // "constructor" or "__proto__".
	CodeNoRecognizedFields = "no_recognized_fields" // Partial preparation saw no defined property.
	CodePropertyAccess     = "property_access"      // A bag hook failed.
	// Input decoding (JSON/YAML property bags)
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// Issue represents a single preparation or validation failure.
type Issue struct {
	Path    string // JSON Pointer of the offending property (for example: /month).
	Code    string // One of the codes listed above.
	Message string
	Key     string // Quoted display form of the field key, when one applies.
	Cause   error  // Optional: underlying error (bag hooks, decoders).
	// Params carries structured parameters (e.g., {"value": -1}) for i18n and
	// observability.
	Params map[string]any
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. missing_required at /month: property "month" is required
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes of all issues so errors.Is and errors.As can reach
// errors raised by bag hooks.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

func singleIssue(code, msg string) Issues {
	return AppendIssues(nil, Issue{Path: "/", Code: code, Message: msg})
}
