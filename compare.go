package calfields

import (
	"bytes"
	"cmp"
	"unicode/utf8"
)

// CompareKeys is the total order over field keys. It returns a negative number
// when a < b, zero when a == b and a positive number when a > b.
//
// Two text keys compare by UTF-16 code units, two index keys numerically. A
// text key and an index key compare as text, using the index's decimal
// representation. Symbols sort after all other keys, in creation order.
func CompareKeys(a, b FieldKey) int {
	if a.kind == KindSymbol || b.kind == KindSymbol {
		return compareSymbols(a, b)
	}
	if a.kind == KindString && b.kind == KindString {
		if a.atom == b.atom {
			return 0
		}
		return compareUTF16(a.Text(), b.Text())
	}
	if a.kind == KindIndex && b.kind == KindIndex {
		return cmp.Compare(a.index, b.index)
	}
	// Always computed as index text versus string, mirrored for (string, index).
	if a.kind == KindIndex {
		return compareUTF16(a.Text(), b.Text())
	}
	return -compareUTF16(b.Text(), a.Text())
}

func compareSymbols(a, b FieldKey) int {
	switch {
	case a.kind != KindSymbol:
		return -1
	case b.kind != KindSymbol:
		return 1
	case a.sym == b.sym:
		return 0
	}
	if c := bytes.Compare(a.sym.id[:], b.sym.id[:]); c != 0 {
		return c
	}
	// Distinct symbols never share an id; keep the order total regardless.
	return cmp.Compare(a.sym.description, b.sym.description)
}

// compareUTF16 compares s and t by UTF-16 code units, which differs from
// byte-wise comparison only for runes at or above U+E000.
func compareUTF16(s, t string) int {
	for s != "" && t != "" {
		cs, ct := s[0], t[0]
		if cs < utf8.RuneSelf && ct < utf8.RuneSelf {
			if cs != ct {
				return cmp.Compare(cs, ct)
			}
			s, t = s[1:], t[1:]
			continue
		}
		rs, ns := utf8.DecodeRuneInString(s)
		rt, nt := utf8.DecodeRuneInString(t)
		if rs != rt {
			hs, ls := utf16Units(rs)
			ht, lt := utf16Units(rt)
			if hs != ht {
				return cmp.Compare(hs, ht)
			}
			return cmp.Compare(ls, lt)
		}
		s, t = s[ns:], t[nt:]
	}
	return cmp.Compare(len(s), len(t))
}

// utf16Units returns the first and second UTF-16 code unit of r; the second
// is zero for runes in the basic multilingual plane.
func utf16Units(r rune) (uint16, uint16) {
	if r < 0x10000 {
		return uint16(r), 0
	}
	r -= 0x10000
	return uint16(0xD800 + (r>>10)&0x3FF), uint16(0xDC00 + r&0x3FF)
}
