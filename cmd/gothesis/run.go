package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gothesis/adapters/excel"
	"gothesis/domain/analysis"
	"gothesis/domain/dataset"
	"gothesis/internal/engine"
)

// loadFlags are the dataset flags shared by run and batch
type loadFlags struct {
	file        string
	sheet       string
	categorical []string
	normalize   bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Dataset file (.xlsx or .csv)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().StringSliceVar(&f.categorical, "categorical", nil, "Columns to treat as categorical even when numeric")
	cmd.Flags().BoolVar(&f.normalize, "normalize", false, "Normalise column names (whitespace to _, upper-case)")
	_ = cmd.MarkFlagRequired("file")
}

func (f *loadFlags) dataset(a *app) (*dataset.Dataset, error) {
	cfg := excel.DefaultLoadConfig()
	cfg.Sheet = f.sheet
	cfg.Categorical = f.categorical
	cfg.Normalize = f.normalize
	return excel.NewDataReader(f.file, cfg, a.log).Load()
}

// names maps variable flags onto column names the way the loader mapped the headers
func (f *loadFlags) names(vars []string) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = excel.ColumnName(v, f.normalize)
	}
	return out
}

func newRunCmd(a *app) *cobra.Command {
	var load loadFlags
	var kind, format string
	var variables []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one analysis and print its result bundle",
		Long: `Run one analysis on a dataset file.

Variables are passed in the order the kind expects; see "gothesis kinds".

Example: gothesis run -f survey.xlsx --kind oneway-anova --var CLASS --var SCORE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load.dataset(a)
			if err != nil {
				return err
			}
			bundle, err := engine.New(a.cfg, a.log).RunNamed(cmd.Context(), ds, kind, load.names(variables))
			if err != nil {
				return err
			}
			return writeBundle(cmd.OutOrStdout(), bundle, format)
		},
	}

	load.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Analysis kind")
	cmd.Flags().StringSliceVar(&variables, "var", nil, "Variable name; repeat in role order")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json|text")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func writeBundle(w io.Writer, b *analysis.Bundle, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return fmt.Errorf("encode bundle: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "text":
		fmt.Fprintf(w, "%s (n = %d)\n\n%s\n", b.Kind.Contract().Title, b.SampleSize, b.Narrative)
		if len(b.Warnings) > 0 {
			fmt.Fprintf(w, "\nWarnings:\n  - %s\n", strings.Join(b.Warnings, "\n  - "))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the analysis kinds and the variables each expects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, k := range analysis.Kinds() {
				c := k.Contract()
				fmt.Fprintf(w, "%-22s %-40s %s\n", k, c.Title, c.Roles)
			}
			return nil
		},
	}
}
