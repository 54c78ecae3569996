// Package calfields prepares calendar property bags for date and time
// construction:
//
// - Field keys (FieldKey) covering string, array-index and symbol keys, with a total order
// - Sorted, duplicate-free field name sets (SortAndValidate, FieldNameSet.Merge, InsertSorted)
// - Canonical field conversion (ToIntegerWithTruncation, ToPositiveIntegerWithTruncation, ToPrimitiveAndRequireString)
// - Bag preparation in typed, generic, required and partial modes, plus merge pipelines
// - A stable error model via Issues (JSON Pointer, code, message)
// - JSON and YAML bag decoding with duplicate-key/depth/size enforcement
//
// Design policy:
// - Keep only public APIs in the root package; put token plumbing under internal/ and source/.
// - Every read goes through Bag.Get, once per key, in ascending key order.
// - The CLI lives under cmd/calfields.
//
// Typical usage:
//
//	fields, err := calfields.SortAndValidate(calfields.KeysOf("day", "month", "monthCode", "year"))
//	bag, err := calfields.DecodeJSONBag(ctx, data)
//	rec, err := calfields.PrepareTyped(ctx, bag, fields, calfields.FieldNameSet{})
//
//	merged, err := calfields.PrepareMerged(ctx, nil, receiver, patch, fields)
package calfields
