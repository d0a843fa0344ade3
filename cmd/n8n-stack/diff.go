package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/differ"
)

func newDiffCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		ignoreOrder  bool
		live         bool
	)

	cmd := &cobra.Command{
		Use:   "diff [template]",
		Short: "Compare a template with the synthesized stack",
		Long: `Diff compares an existing template against the freshly synthesized one.

The baseline is either a JSON or YAML template file, or with --live the
template of the deployed stack.

Examples:
    n8n-stack diff template.json
    n8n-stack diff --live
    n8n-stack diff old.yaml --ignore-order -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if live == (len(args) == 1) {
				return errors.New("pass either a template file or --live")
			}

			var baseline *n8n.Template
			var err error
			if live {
				baseline, err = liveTemplate(cmd.Context(), opts)
			} else {
				baseline, err = differ.LoadTemplate(args[0])
			}
			if err != nil {
				return err
			}

			return runDiff(cmd.OutOrStdout(), opts, baseline, differ.Options{IgnoreOrder: ignoreOrder}, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore array element order")
	cmd.Flags().BoolVar(&live, "live", false, "Compare against the deployed stack")

	return cmd
}

func liveTemplate(ctx context.Context, opts *globalOptions) (*n8n.Template, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	d, err := newDeployer(ctx, opts, cfg.Region)
	if err != nil {
		return nil, err
	}
	data, err := d.LiveTemplate(ctx, opts.stackName)
	if err != nil {
		return nil, err
	}
	return differ.ParseTemplate(data)
}

func runDiff(w io.Writer, opts *globalOptions, baseline *n8n.Template, diffOpts differ.Options, format string) error {
	s, _, err := opts.synthesize()
	if err != nil {
		return err
	}

	res, err := differ.Compare(baseline, s.Template, diffOpts)
	if err != nil {
		return err
	}

	result := n8n.DiffResult{
		Success: true,
		Diff:    res.Diff,
		Summary: res.Summary,
	}
	return outputDiffResult(w, result, format)
}

func outputDiffResult(w io.Writer, result n8n.DiffResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if result.Summary.Total == 0 {
			fmt.Fprintln(w, "No differences.")
			return nil
		}

		for _, e := range result.Diff.Added {
			fmt.Fprintf(w, "+ %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Removed {
			fmt.Fprintf(w, "- %s (%s)\n", e.Resource, e.Type)
		}
		for _, e := range result.Diff.Modified {
			fmt.Fprintf(w, "~ %s (%s)\n", e.Resource, e.Type)
			for _, c := range e.Changes {
				fmt.Fprintf(w, "    %s\n", c)
			}
		}
		for _, o := range result.Diff.Outputs {
			fmt.Fprintf(w, "  output %s\n", o)
		}
		fmt.Fprintf(w, "\nSummary: %d added, %d removed, %d modified\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
