package calfields

// mergeSortKeys stably sorts keys in place using scratch, which must have the
// same length. Each comparison goes through CompareKeys exactly once, and equal
// keys keep their input order so duplicate diagnostics name the first
// occurrence.
func mergeSortKeys(keys, scratch []FieldKey) {
	n := len(keys)
	if n < 2 {
		return
	}
	src, dst := keys, scratch
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRuns(dst[lo:hi], src[lo:mid], src[mid:hi])
		}
		src, dst = dst, src
	}
	// After the final pass the sorted run lives in src.
	if &src[0] != &keys[0] {
		copy(keys, src)
	}
}

// mergeRuns merges the sorted runs left and right into out, preferring left
// on ties.
func mergeRuns(out, left, right []FieldKey) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if CompareKeys(left[i], right[j]) <= 0 {
			out[k] = left[i]
			i++
		} else {
			out[k] = right[j]
			j++
		}
		k++
	}
	k += copy(out[k:], left[i:])
	copy(out[k:], right[j:])
}
