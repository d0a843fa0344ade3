package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/template"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stack's resources in dependency order",
		Long: `List displays every resource the stack declares, dependencies first.

Examples:
    n8n-stack list
    n8n-stack list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout(), opts, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runList(w io.Writer, opts *globalOptions, format string) error {
	s, _, err := opts.synthesize()
	if err != nil {
		return err
	}

	deps := template.Dependencies(s.Template)
	listResult := n8n.ListResult{
		Resources: make([]n8n.ListResource, 0, len(s.Template.Resources)),
	}
	for _, name := range s.Order() {
		listResult.Resources = append(listResult.Resources, n8n.ListResource{
			Name:      name,
			Type:      s.Template.Resources[name].Type,
			DependsOn: deps[name],
		})
	}

	return outputListResult(w, listResult, format)
}

func outputListResult(w io.Writer, result n8n.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources declared.")
			return nil
		}

		fmt.Fprintf(w, "Declared resources (%d):\n\n", len(result.Resources))
		for _, res := range result.Resources {
			fmt.Fprintf(w, "  %s: %s\n", res.Name, res.Type)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
