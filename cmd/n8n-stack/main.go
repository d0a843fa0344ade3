// Command n8n-stack synthesizes and deploys the CloudFormation stack that
// hosts n8n on ECS Fargate with a managed PostgreSQL database.
//
// Usage:
//
//	n8n-stack synth                 Print the CloudFormation template
//	n8n-stack audit                 Check the template for risky settings
//	n8n-stack deploy                Create or update the stack
//	n8n-stack version               Show version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lex00/n8n-aws-go/internal/config"
	"github.com/lex00/n8n-aws-go/internal/stack"
)

// DefaultStackName is the CloudFormation stack name used when --stack-name is not given.
const DefaultStackName = "N8nStack"

// globalOptions holds the root persistent flags.
type globalOptions struct {
	envFile   string
	stackName string
	verbose   bool
}

func (o *globalOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the deployment inputs without validating them.
func (o *globalOptions) loadConfig() (config.Config, error) {
	return config.Load(o.envFile)
}

// synthesize loads the configuration and builds the stack.
func (o *globalOptions) synthesize() (*stack.Stack, config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	s, err := stack.Build(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return s, cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "n8n-stack",
		Short: "Synthesize and deploy the n8n AWS stack",
		Long: `n8n-stack declares the AWS infrastructure that runs n8n: a two-AZ VPC,
an ECS Fargate service behind an HTTPS load balancer, and a PostgreSQL
database with generated credentials.

Inputs are read from the environment, with .env.local filling gaps:

    DOMAIN_NAME=n8n.example.com
    N8N_BASIC_AUTH_PASSWORD=...
    N8N_ENCRYPTION_KEY=...

Then generate the template:

    n8n-stack synth -o template.json`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Env file consulted for unset variables")
	rootCmd.PersistentFlags().StringVar(&opts.stackName, "stack-name", DefaultStackName, "CloudFormation stack name")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newSynthCmd(opts),
		newListCmd(opts),
		newGraphCmd(opts),
		newValidateCmd(opts),
		newAuditCmd(opts),
		newDiffCmd(opts),
		newDeployCmd(opts),
		newDestroyCmd(opts),
		newOutputsCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "n8n-stack %s\n", getVersion())
		},
	}
}
