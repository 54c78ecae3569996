package calfields

import (
	"bytes"
	"context"
	"errors"
	"slices"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Bag is a dynamic property bag. Get returns nil for undefined properties.
// Implementations may run arbitrary logic on every read, including mutating
// the bag itself.
type Bag interface {
	Get(ctx context.Context, key FieldKey) (any, error)
}

// KeyedBag is a Bag that can enumerate its own property keys.
type KeyedBag interface {
	Bag
	OwnKeys(ctx context.Context) ([]FieldKey, error)
}

// BagFunc adapts a getter function to Bag.
type BagFunc func(ctx context.Context, key FieldKey) (any, error)

// Get calls f.
func (f BagFunc) Get(ctx context.Context, key FieldKey) (any, error) { return f(ctx, key) }

// MapBag adapts a map keyed by property text. Symbol keys are always
// undefined.
type MapBag map[string]any

// Get returns the value stored under the key's text.
func (m MapBag) Get(_ context.Context, key FieldKey) (any, error) {
	if key.Kind() == KindSymbol {
		return nil, nil
	}
	return m[key.Text()], nil
}

// OwnKeys returns the map's keys in ascending key order.
func (m MapBag) OwnKeys(context.Context) ([]FieldKey, error) {
	keys := make([]FieldKey, 0, len(m))
	for k := range m {
		keys = append(keys, KeyOf(k))
	}
	slices.SortFunc(keys, CompareKeys)
	return keys, nil
}

// ErrFrozen is returned when defining a property on a frozen OrderedBag.
var ErrFrozen = errors.New("calfields: bag is frozen")

type bagEntry struct {
	key   FieldKey
	value any
}

// OrderedBag is a prototype-less property bag that remembers insertion order.
// A property may be defined with an undefined (nil) value; it then exists but
// reads as undefined.
type OrderedBag struct {
	entries []bagEntry
	index   map[FieldKey]int
	frozen  bool
}

// NewOrderedBag returns an empty bag.
func NewOrderedBag() *OrderedBag {
	return &OrderedBag{index: map[FieldKey]int{}}
}

// Define creates or overwrites a property. New properties are appended to the
// insertion order; overwritten ones keep their position.
func (b *OrderedBag) Define(key FieldKey, value any) error {
	if b.frozen {
		return ErrFrozen
	}
	if b.index == nil {
		b.index = map[FieldKey]int{}
	}
	if i, ok := b.index[key]; ok {
		b.entries[i].value = value
		return nil
	}
	b.index[key] = len(b.entries)
	b.entries = append(b.entries, bagEntry{key: key, value: value})
	return nil
}

// Freeze makes every further Define fail with ErrFrozen.
func (b *OrderedBag) Freeze() { b.frozen = true }

// Frozen reports whether Freeze was called.
func (b *OrderedBag) Frozen() bool { return b.frozen }

// Get implements Bag.
func (b *OrderedBag) Get(_ context.Context, key FieldKey) (any, error) {
	v, _ := b.Lookup(key)
	return v, nil
}

// Lookup returns the value and whether the property exists.
func (b *OrderedBag) Lookup(key FieldKey) (any, bool) {
	i, ok := b.index[key]
	if !ok {
		return nil, false
	}
	return b.entries[i].value, true
}

// Has reports whether the property exists, even with an undefined value.
func (b *OrderedBag) Has(key FieldKey) bool {
	_, ok := b.index[key]
	return ok
}

// Len returns the number of properties.
func (b *OrderedBag) Len() int { return len(b.entries) }

// InsertionKeys returns keys in the order they were first defined.
func (b *OrderedBag) InsertionKeys() []FieldKey {
	keys := make([]FieldKey, len(b.entries))
	for i, e := range b.entries {
		keys[i] = e.key
	}
	return keys
}

// OwnKeys returns keys in the host's own-property order: index keys ascending,
// then string keys in insertion order, then symbols in insertion order.
func (b *OrderedBag) OwnKeys(context.Context) ([]FieldKey, error) {
	return b.ownKeys(), nil
}

func (b *OrderedBag) ownKeys() []FieldKey {
	var indices, strs, syms []FieldKey
	for _, e := range b.entries {
		switch e.key.Kind() {
		case KindIndex:
			indices = append(indices, e.key)
		case KindSymbol:
			syms = append(syms, e.key)
		default:
			strs = append(strs, e.key)
		}
	}
	slices.SortFunc(indices, CompareKeys)
	return slices.Concat(indices, strs, syms)
}

// MarshalJSON writes the bag as a JSON object in own-key order. Undefined
// values and symbol keys are skipped.
func (b *OrderedBag) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	first := true
	for _, k := range b.ownKeys() {
		v, _ := b.Lookup(k)
		if v == nil || k.Kind() == KindSymbol {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(k.Text())
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(jsonValue(v))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(v any) any {
	if s, ok := v.(*Symbol); ok {
		return s.String()
	}
	return v
}

// MarshalYAML renders the bag as an ordered YAML mapping with the same
// skipping rules as MarshalJSON.
func (b *OrderedBag) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range b.ownKeys() {
		v, _ := b.Lookup(k)
		if v == nil || k.Kind() == KindSymbol {
			continue
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k.Text()}
		valNode := &yaml.Node{}
		if err := valNode.Encode(yamlValue(v)); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func yamlValue(v any) any {
	switch t := v.(type) {
	case NullValue:
		return nil
	case *Symbol:
		return t.String()
	}
	return v
}
