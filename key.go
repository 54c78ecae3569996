package calfields

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// KeyKind discriminates the FieldKey variants.
type KeyKind uint8

const (
	KindString KeyKind = iota // Interned text.
	KindIndex                 // Non-negative integer index.
	KindSymbol                // Unique symbol.
)

func (k KeyKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindIndex:
		return "index"
	case KindSymbol:
		return "symbol"
	}
	return "unknown"
}

// atom is an interned string. Two string keys are equal iff they share the
// same *atom.
type atom struct{ text string }

var (
	_atomMu sync.RWMutex
	_atoms  = map[string]*atom{}
)

func internAtom(s string) *atom {
	_atomMu.RLock()
	if a, ok := _atoms[s]; ok {
		_atomMu.RUnlock()
		return a
	}
	_atomMu.RUnlock()

	_atomMu.Lock()
	defer _atomMu.Unlock()
	if a, ok := _atoms[s]; ok { // double-check
		return a
	}
	a := &atom{text: s}
	_atoms[s] = a
	return a
}

// Symbol is an opaque unique identity usable as a property key or value.
// Symbols never compare by description.
type Symbol struct {
	id          uuid.UUID
	description string
	hasDesc     bool
}

// NewSymbol creates a fresh symbol with the given description.
func NewSymbol(description string) *Symbol {
	return &Symbol{id: uuid.Must(uuid.NewV7()), description: description, hasDesc: true}
}

// NewAnonymousSymbol creates a fresh symbol without a description.
func NewAnonymousSymbol() *Symbol {
	return &Symbol{id: uuid.Must(uuid.NewV7())}
}

// ID returns the symbol's time-ordered identity.
func (s *Symbol) ID() uuid.UUID { return s.id }

// Description returns the description and whether one was given.
func (s *Symbol) Description() (string, bool) { return s.description, s.hasDesc }

func (s *Symbol) String() string { return "Symbol(" + s.description + ")" }

// FieldKey identifies a property on a bag. It is comparable: two keys are
// equal iff they have the same variant and the same payload identity.
type FieldKey struct {
	kind  KeyKind
	atom  *atom
	index uint32
	sym   *Symbol
}

// StringKey returns the key for property text s. Canonical index text ("0",
// "17") yields the index key, so no string key ever carries index text.
func StringKey(s string) FieldKey {
	if i, ok := parseIndex(s); ok {
		return IndexKey(i)
	}
	return FieldKey{kind: KindString, atom: internAtom(s)}
}

// IndexKey returns the integer index key i.
func IndexKey(i uint32) FieldKey { return FieldKey{kind: KindIndex, index: i} }

// SymbolKey returns the key for symbol s.
func SymbolKey(s *Symbol) FieldKey {
	if s == nil {
		panic("calfields.SymbolKey: symbol must not be nil")
	}
	return FieldKey{kind: KindSymbol, sym: s}
}

// maxIndex is the largest array index; 2^32-1 itself is a plain string key.
const maxIndex = math.MaxUint32 - 1

// KeyOf converts property text into its canonical key: canonical decimal
// array indices ("0", "17", but not "017" or "-1") become index keys,
// everything else an interned string key. It is StringKey under the name
// callers use when parsing input.
func KeyOf(s string) FieldKey {
	return StringKey(s)
}

// KeysOf maps KeyOf over texts.
func KeysOf(texts ...string) []FieldKey {
	out := make([]FieldKey, len(texts))
	for i, s := range texts {
		out[i] = KeyOf(s)
	}
	return out
}

func parseIndex(s string) (uint32, bool) {
	if s == "" || len(s) > 10 {
		return 0, false
	}
	if s[0] == '0' {
		return 0, len(s) == 1
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
	}
	if n > maxIndex {
		return 0, false
	}
	return uint32(n), true
}

// Kind returns the key variant.
func (k FieldKey) Kind() KeyKind { return k.kind }

// IsZero reports whether k is the zero FieldKey (no variant payload).
func (k FieldKey) IsZero() bool { return k == FieldKey{} }

// IsString reports whether k is a text key.
func (k FieldKey) IsString() bool { return k.kind == KindString && k.atom != nil }

// Index returns the index payload.
func (k FieldKey) Index() (uint32, bool) { return k.index, k.kind == KindIndex }

// Symbol returns the symbol payload, or nil.
func (k FieldKey) Symbol() *Symbol { return k.sym }

// Text returns the property text of a string or index key. Symbol keys return
// their description.
func (k FieldKey) Text() string {
	switch k.kind {
	case KindIndex:
		return strconv.FormatUint(uint64(k.index), 10)
	case KindSymbol:
		return k.sym.description
	}
	if k.atom == nil {
		return ""
	}
	return k.atom.text
}

func (k FieldKey) String() string {
	if k.kind == KindSymbol {
		return k.sym.String()
	}
	return k.Text()
}

// Quote renders k for messages: text keys are quoted, index keys are bare
// decimals and symbols render their quoted description.
func (k FieldKey) Quote() string {
	switch k.kind {
	case KindIndex:
		return k.Text()
	case KindSymbol:
		if !k.sym.hasDesc {
			return "Symbol()"
		}
		return strconv.Quote(k.sym.description)
	}
	return strconv.Quote(k.Text())
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// pointer returns the JSON Pointer addressing k on the bag root.
func (k FieldKey) pointer() string { return "/" + jsonPointerEscaper.Replace(k.Text()) }

// MarshalText renders string and index keys; symbols cannot be marshalled.
func (k FieldKey) MarshalText() ([]byte, error) {
	if k.kind == KindSymbol {
		return nil, Issues{{Path: "/", Code: CodeTypeError, Message: "symbol keys cannot be serialized", Key: k.Quote()}}
	}
	return []byte(k.Text()), nil
}

// UnmarshalText parses property text with KeyOf.
func (k *FieldKey) UnmarshalText(b []byte) error {
	*k = KeyOf(string(b))
	return nil
}

// Reserved property names rejected by SortAndValidate.
var (
	keyConstructor = StringKey("constructor")
	keyProto       = StringKey("__proto__")
)

// IsReserved reports whether k is "constructor" or "__proto__".
func (k FieldKey) IsReserved() bool { return k == keyConstructor || k == keyProto }
