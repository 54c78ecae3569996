package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/reoring/calfields"
)

const maxConcurrentFiles = 8

type prepareFlags struct {
	fields   []string
	add      []string
	required []string
	mode     string
}

type prepareResult struct {
	File   string                `json:"file" yaml:"file"`
	Fields *calfields.OrderedBag `json:"fields" yaml:"fields"`
}

func newPrepareCmd(a *app) *cobra.Command {
	f := &prepareFlags{}
	cmd := &cobra.Command{
		Use:   "prepare FILE...",
		Short: "Read field bags from JSON/YAML files and prepare them",
		Long: `Reads each file as a property bag, reads the listed fields in ascending
key order and converts them. Modes:
  typed     fill the fixed temporal record (defaults for missing fields)
  generic   build an ordered bag, defaults for missing canonical fields
  required  like generic but missing required fields are errors
  partial   keep only defined fields, at least one is needed`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fields") && len(a.cfg.Fields) > 0 {
				f.fields = a.cfg.Fields
			}
			if !cmd.Flags().Changed("required") && len(a.cfg.Required) > 0 {
				f.required = a.cfg.Required
			}
			if !cmd.Flags().Changed("mode") && a.cfg.Mode != "" {
				f.mode = a.cfg.Mode
			}
			return a.runPrepare(cmd.Context(), f, args)
		},
	}
	cmd.Flags().StringSliceVar(&f.fields, "fields", []string{"day", "month", "monthCode", "year"}, "Field names to read")
	cmd.Flags().StringSliceVar(&f.add, "add", nil, "Canonical fields appended to --fields, e.g. day,monthCode")
	cmd.Flags().StringSliceVar(&f.required, "required", nil, "Field names that must be defined")
	cmd.Flags().StringVar(&f.mode, "mode", "generic", "Preparation mode: typed, generic, required or partial")
	return cmd
}

func (a *app) runPrepare(ctx context.Context, f *prepareFlags, files []string) error {
	fieldNames, err := calfields.SortAndValidate(calfields.KeysOf(f.fields...))
	if err != nil {
		return fmt.Errorf("--fields: %w", err)
	}
	if len(f.add) > 0 {
		add, err := canonicalFields(f.add)
		if err != nil {
			return fmt.Errorf("--add: %w", err)
		}
		if fieldNames, err = fieldNames.InsertSorted(add...); err != nil {
			return fmt.Errorf("--add: %w", err)
		}
	}
	required, err := calfields.SortAndValidate(calfields.KeysOf(f.required...))
	if err != nil {
		return fmt.Errorf("--required: %w", err)
	}
	opt, err := a.cfg.Decode.DecodeOpt()
	if err != nil {
		return err
	}
	switch f.mode {
	case "typed", "generic", "required", "partial":
	default:
		return fmt.Errorf("unknown mode %q", f.mode)
	}

	ctx = calfields.WithLogger(ctx, a.logger)
	results := make([]prepareResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bag, err := prepareFile(gctx, file, f.mode, fieldNames, required, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = prepareResult{File: file, Fields: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Debug("prepared files", zap.Int("files", len(files)), zap.String("mode", f.mode))
	return a.writeResults(results)
}

// canonicalFields resolves names to canonical fields sorted by key.
func canonicalFields(names []string) ([]calfields.Field, error) {
	fields := make([]calfields.Field, 0, len(names))
	for _, name := range names {
		f, ok := calfields.ParseField(name)
		if !ok {
			return nil, fmt.Errorf("%q is not a canonical field", name)
		}
		fields = append(fields, f)
	}
	slices.SortFunc(fields, func(a, b calfields.Field) int {
		return calfields.CompareKeys(a.Key(), b.Key())
	})
	for i := 1; i < len(fields); i++ {
		if fields[i] == fields[i-1] {
			return nil, fmt.Errorf("field %q listed twice", fields[i])
		}
	}
	return fields, nil
}

func prepareFile(ctx context.Context, file, mode string, fieldNames, required calfields.FieldNameSet, opt calfields.DecodeOpt) (*calfields.OrderedBag, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var input *calfields.OrderedBag
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		input, err = calfields.DecodeYAMLBag(ctx, data, opt)
	default:
		input, err = calfields.DecodeJSONBag(ctx, data, opt)
	}
	if err != nil {
		return nil, err
	}

	switch mode {
	case "typed":
		rec, err := calfields.PrepareTyped(ctx, input, fieldNames, required)
		if err != nil {
			return nil, err
		}
		return rec.Bag(fieldNames), nil
	case "required":
		return calfields.PrepareGenericRequired(ctx, input, fieldNames, required)
	case "partial":
		return calfields.PreparePartial(ctx, input, fieldNames)
	}
	return calfields.PrepareGeneric(ctx, input, fieldNames)
}

func (a *app) writeResults(results []prepareResult) error {
	if a.format == "yaml" {
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	}
	for _, r := range results {
		b, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(a.out, string(b)); err != nil {
			return err
		}
	}
	return nil
}
