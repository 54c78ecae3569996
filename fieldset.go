package calfields

import (
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// FieldNameSet is a sorted, duplicate-free list of field keys. The zero value
// is the empty set. Sets are immutable: every operation returns a new set and
// leaves its receiver and arguments untouched.
type FieldNameSet struct {
	keys []FieldKey
}

// BuildCanonicalFieldSet returns the set of the given canonical fields. The
// fields must be listed in ascending name order without duplicates.
func BuildCanonicalFieldSet(fields ...Field) FieldNameSet {
	if len(fields) == 0 {
		return FieldNameSet{}
	}
	keys := make([]FieldKey, len(fields))
	for i, f := range fields {
		keys[i] = f.Key()
		if i > 0 && CompareKeys(keys[i-1], keys[i]) >= 0 {
			panic("calfields.BuildCanonicalFieldSet: fields must be sorted by name and unique")
		}
	}
	return FieldNameSet{keys: keys}
}

// Len returns the number of keys.
func (s FieldNameSet) Len() int { return len(s.keys) }

// At returns the i-th key in ascending order.
func (s FieldNameSet) At(i int) FieldKey { return s.keys[i] }

// Keys returns a copy of the keys in ascending order.
func (s FieldNameSet) Keys() []FieldKey { return slices.Clone(s.keys) }

// Contains reports whether k is a member.
func (s FieldNameSet) Contains(k FieldKey) bool {
	_, found := slices.BinarySearchFunc(s.keys, k, CompareKeys)
	return found
}

// ContainsField reports whether f's key is a member.
func (s FieldNameSet) ContainsField(f Field) bool { return s.Contains(f.Key()) }

// Equal reports whether s and t hold the same keys.
func (s FieldNameSet) Equal(t FieldNameSet) bool { return slices.Equal(s.keys, t.keys) }

func (s FieldNameSet) String() string {
	b := &strings.Builder{}
	b.WriteByte('[')
	for i, k := range s.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.Quote())
	}
	b.WriteByte(']')
	return b.String()
}

// MarshalJSON renders the set as an array of property names.
func (s FieldNameSet) MarshalJSON() ([]byte, error) {
	names := make([]FieldKey, len(s.keys))
	copy(names, s.keys)
	return json.Marshal(names)
}

// UnmarshalJSON reads an array of property names and runs SortAndValidate.
func (s *FieldNameSet) UnmarshalJSON(b []byte) error {
	var keys []FieldKey
	if err := json.Unmarshal(b, &keys); err != nil {
		return singleIssue(CodeParseError, err.Error())
	}
	set, err := SortAndValidate(keys)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// Merge returns the sorted union of a and b with duplicates collapsed.
func Merge(a, b FieldNameSet) FieldNameSet {
	out := make([]FieldKey, 0, len(a.keys)+len(b.keys))
	appendUnique := func(k FieldKey) {
		if len(out) == 0 || out[len(out)-1] != k {
			out = append(out, k)
		}
	}

	i, j := 0, 0
	for i < len(a.keys) && j < len(b.keys) {
		x, y := a.keys[i], b.keys[j]
		if CompareKeys(x, y) <= 0 {
			appendUnique(x)
			i++
		} else {
			appendUnique(y)
			j++
		}
	}
	for ; i < len(a.keys); i++ {
		appendUnique(a.keys[i])
	}
	for ; j < len(b.keys); j++ {
		appendUnique(b.keys[j])
	}
	return FieldNameSet{keys: out}
}

func (s FieldNameSet) lowerBound(from int, k FieldKey) int {
	i, _ := slices.BinarySearchFunc(s.keys[from:], k, CompareKeys)
	return from + i
}

func duplicateField(k FieldKey) error {
	return Issues{k.issue(CodeDuplicateField, "duplicate_field", nil)}
}

// InsertSorted returns s with the given canonical fields added. fields must be
// non-empty and sorted by name without duplicates. It fails with
// CodeDuplicateField if s already contains one of them.
func (s FieldNameSet) InsertSorted(fields ...Field) (FieldNameSet, error) {
	if len(fields) == 0 {
		panic("calfields.FieldNameSet.InsertSorted: no fields given")
	}
	add := BuildCanonicalFieldSet(fields...)
	switch add.Len() {
	case 1:
		return s.insertOne(add.keys[0])
	case 2:
		return s.insertTwo(add.keys[0], add.keys[1])
	}
	return s.insertMany(add.keys)
}

func (s FieldNameSet) insertOne(k FieldKey) (FieldNameSet, error) {
	n := len(s.keys)
	p := s.lowerBound(0, k)
	if p < n && s.keys[p] == k {
		return s, duplicateField(k)
	}

	out := make([]FieldKey, n+1)
	copy(out, s.keys)
	copy(out[p+1:], out[p:n])
	out[p] = k
	return FieldNameSet{keys: out}, nil
}

func (s FieldNameSet) insertTwo(one, two FieldKey) (FieldNameSet, error) {
	n := len(s.keys)
	p := s.lowerBound(0, one)
	// two can't occur before p.
	q := s.lowerBound(p, two)
	if p < n && s.keys[p] == one {
		return s, duplicateField(one)
	}
	if q < n && s.keys[q] == two {
		return s, duplicateField(two)
	}

	out := make([]FieldKey, n+2)
	copy(out, s.keys)
	copy(out[q+2:], out[q:n])
	copy(out[p+1:q+1], out[p:q])
	out[p] = one
	out[q+1] = two
	return FieldNameSet{keys: out}, nil
}

// insertMany merges add into s by writing backwards from the end of a grown
// buffer.
func (s FieldNameSet) insertMany(add []FieldKey) (FieldNameSet, error) {
	out := make([]FieldKey, len(s.keys)+len(add))
	copy(out, s.keys)

	left := len(s.keys)
	right := len(add)
	w := len(out)
	for left > 0 && right > 0 {
		x, y := out[left-1], add[right-1]
		r := CompareKeys(x, y)
		if r == 0 {
			return s, duplicateField(x)
		}
		// Place the greater key.
		w--
		if r > 0 {
			out[w] = x
			left--
		} else {
			out[w] = y
			right--
		}
	}
	// Remaining entries of s are already in place; only add may be left over.
	for right > 0 {
		w--
		right--
		out[w] = add[right]
	}
	return FieldNameSet{keys: out}, nil
}

// SortAndValidate sorts an arbitrary key list and validates it as a field
// name set. It fails with CodeReservedField for "constructor" and "__proto__"
// and with CodeDuplicateField when a key occurs twice.
func SortAndValidate(keys []FieldKey) (FieldNameSet, error) {
	sorted := slices.Clone(keys)
	for _, k := range sorted {
		if k.IsZero() {
			panic("calfields.SortAndValidate: zero FieldKey")
		}
	}
	mergeSortKeys(sorted, make([]FieldKey, len(sorted)))

	for i, k := range sorted {
		if k.IsReserved() {
			return FieldNameSet{}, Issues{k.issue(CodeReservedField, "reserved_field", nil)}
		}
		if i > 0 && k == sorted[i-1] {
			return FieldNameSet{}, duplicateField(k)
		}
	}
	return FieldNameSet{keys: sorted}, nil
}
