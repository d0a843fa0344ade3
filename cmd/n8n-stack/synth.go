package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/template"
)

func newSynthCmd(opts *globalOptions) *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:     "synth",
		Aliases: []string{"build"},
		Short:   "Generate the CloudFormation template",
		Long: `Synth validates the configuration and writes the CloudFormation template.

Examples:
    n8n-stack synth
    n8n-stack synth -o template.json
    n8n-stack synth --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd.OutOrStdout(), opts, outputFormat, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runSynth(w io.Writer, opts *globalOptions, format, outputFile string) error {
	s, _, err := opts.synthesize()
	if err != nil {
		return err
	}

	result := n8n.BuildResult{
		Success:   true,
		Template:  *s.Template,
		Resources: s.Order(),
	}
	return outputResult(w, result, format, outputFile)
}

func outputResult(w io.Writer, result n8n.BuildResult, format, outputFile string) error {
	if !result.Success {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("synth failed")
	}

	data, err := renderTemplate(&result.Template, format)
	if err != nil {
		return err
	}

	if outputFile == "" {
		fmt.Fprintln(w, string(data))
		return nil
	}

	return os.WriteFile(outputFile, data, 0644)
}

func renderTemplate(t *n8n.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(t)
	case "yaml":
		return template.ToYAML(t)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
