package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/spf13/cobra"

	"github.com/lex00/n8n-aws-go/internal/deploy"
	"github.com/lex00/n8n-aws-go/internal/template"
)

// The stack creates IAM roles for the task and its execution.
var deployCapabilities = []types.Capability{
	types.CapabilityCapabilityIam,
	types.CapabilityCapabilityNamedIam,
}

func newDeployer(ctx context.Context, opts *globalOptions, region string) (*deploy.Deployer, error) {
	return deploy.NewFromConfig(ctx, region, deploy.WithLogger(opts.logger()))
}

func newDeployCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create or update the stack in AWS",
		Long: `Deploy synthesizes the template and submits it to CloudFormation, creating
the stack on first run and updating it afterwards. It waits for the
operation to finish and prints the stack outputs.

When CDK_DEFAULT_ACCOUNT is set, the resolved AWS credentials must belong
to that account.

Examples:
    n8n-stack deploy
    n8n-stack deploy --stack-name N8nStaging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd.Context(), cmd.OutOrStdout(), opts, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runDeploy(ctx context.Context, w io.Writer, opts *globalOptions, format string) error {
	s, cfg, err := opts.synthesize()
	if err != nil {
		return err
	}

	body, err := template.ToJSON(s.Template)
	if err != nil {
		return fmt.Errorf("rendering template: %w", err)
	}

	d, err := newDeployer(ctx, opts, cfg.Region)
	if err != nil {
		return err
	}

	result, err := d.Deploy(ctx, deploy.Request{
		StackName:    opts.stackName,
		TemplateBody: string(body),
		Account:      cfg.Account,
		Capabilities: deployCapabilities,
	})
	if err != nil {
		return err
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "text":
		fmt.Fprintf(w, "Stack %s: %s\n", result.StackName, result.Action)
		printOutputs(w, result.Outputs)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

func newDestroyCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete the stack from AWS",
		Long: `Destroy deletes the CloudFormation stack and waits for the deletion to
finish. The database instance is deleted with it.

Examples:
    n8n-stack destroy --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to destroy without --yes")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			d, err := newDeployer(cmd.Context(), opts, cfg.Region)
			if err != nil {
				return err
			}
			if err := d.Destroy(cmd.Context(), opts.stackName); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stack %s destroyed\n", opts.stackName)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")

	return cmd
}

func newOutputsCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Show the outputs of the deployed stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			d, err := newDeployer(cmd.Context(), opts, cfg.Region)
			if err != nil {
				return err
			}
			outputs, err := d.Outputs(cmd.Context(), opts.stackName)
			if err != nil {
				return err
			}

			switch outputFormat {
			case "json":
				data, err := json.MarshalIndent(outputs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			case "text":
				printOutputs(cmd.OutOrStdout(), outputs)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func printOutputs(w io.Writer, outputs map[string]string) {
	for _, k := range deploy.SortedOutputKeys(outputs) {
		fmt.Fprintf(w, "  %s = %s\n", k, outputs[k])
	}
}
