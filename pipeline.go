package calfields

import "context"

// FieldsMerger is an optional hook for calendars whose merge differs from
// the ISO one. When the resolver passed to the pipelines implements it, it
// replaces MergeFields.
type FieldsMerger interface {
	MergeFields(ctx context.Context, fields, additional KeyedBag) (KeyedBag, error)
}

// ApplyMerge calls FieldsMerger if implemented and MergeFields otherwise.
func ApplyMerge(ctx context.Context, resolver FieldsResolver, fields, additional KeyedBag) (KeyedBag, error) {
	if m, ok := resolver.(FieldsMerger); ok {
		merged, err := m.MergeFields(ctx, fields, additional)
		if err != nil {
			if _, ok := AsIssues(err); ok {
				return nil, err
			}
			return nil, Issues{{Path: "/", Code: CodePropertyAccess, Message: err.Error(), Cause: err}}
		}
		return merged, nil
	}
	return MergeFields(ctx, fields, additional)
}

// PrepareMerged applies a partial patch on top of a receiver: the receiver is
// prepared generically, the patch partially, both are merged and the merged
// bag is prepared again over fieldNames.
func PrepareMerged(ctx context.Context, resolver FieldsResolver, receiver, patch Bag, fieldNames FieldNameSet) (*OrderedBag, error) {
	fields, err := PrepareGeneric(ctx, receiver, fieldNames)
	if err != nil {
		return nil, err
	}
	partial, err := PreparePartial(ctx, patch, fieldNames)
	if err != nil {
		return nil, err
	}
	merged, err := ApplyMerge(ctx, resolver, fields, partial)
	if err != nil {
		return nil, err
	}
	return PrepareGeneric(ctx, merged, fieldNames)
}

// PrepareCombined combines two bags described by different field lists, for
// example a year-month receiver and a day input. Each bag is prepared over
// its own names, the results are merged with input winning, and the merged
// bag is prepared over the union of both name sets.
func PrepareCombined(ctx context.Context, resolver FieldsResolver, receiver Bag, receiverNames FieldNameSet, input Bag, inputNames FieldNameSet) (*OrderedBag, error) {
	fields, err := PrepareGeneric(ctx, receiver, receiverNames)
	if err != nil {
		return nil, err
	}
	inputFields, err := PrepareGeneric(ctx, input, inputNames)
	if err != nil {
		return nil, err
	}
	merged, err := ApplyMerge(ctx, resolver, fields, inputFields)
	if err != nil {
		return nil, err
	}
	return PrepareGeneric(ctx, merged, Merge(receiverNames, inputNames))
}
