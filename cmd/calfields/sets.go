package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reoring/calfields"
)

func newSortCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sort KEY...",
		Short: "Sort and validate a field name list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := calfields.SortAndValidate(calfields.KeysOf(args...))
			if err != nil {
				return err
			}
			return a.writeSet(set)
		},
	}
}

func newMergeCmd(a *app) *cobra.Command {
	var left, right []string
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Print the sorted union of two field name lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := calfields.SortAndValidate(calfields.KeysOf(left...))
			if err != nil {
				return fmt.Errorf("--left: %w", err)
			}
			r, err := calfields.SortAndValidate(calfields.KeysOf(right...))
			if err != nil {
				return fmt.Errorf("--right: %w", err)
			}
			return a.writeSet(calfields.Merge(l, r))
		},
	}
	cmd.Flags().StringSliceVar(&left, "left", nil, "First field name list")
	cmd.Flags().StringSliceVar(&right, "right", nil, "Second field name list")
	return cmd
}

func (a *app) writeSet(set calfields.FieldNameSet) error {
	if a.format == "yaml" {
		names := make([]string, set.Len())
		for i := range names {
			names[i] = set.At(i).Text()
		}
		b, err := yaml.Marshal(names)
		if err != nil {
			return err
		}
		_, err = a.out.Write(b)
		return err
	}
	b, err := json.Marshal(set)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
