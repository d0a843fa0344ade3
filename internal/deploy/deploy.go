// Package deploy creates, updates and deletes the n8n CloudFormation stack.
//
// The Deployer talks to CloudFormation and STS through narrow interfaces so
// tests can substitute fakes. Provisioning failures are reported as returned
// by CloudFormation; rollback is left to the service.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// DefaultWaitTimeout bounds how long Deploy and Destroy wait for a stack to settle.
const DefaultWaitTimeout = 60 * time.Minute

var (
	// ErrStackNotFound is returned when the named stack does not exist.
	ErrStackNotFound = errors.New("stack not found")
	// ErrAccountMismatch is returned when the caller's credentials belong to
	// a different account than the one requested.
	ErrAccountMismatch = errors.New("account mismatch")
)

// CloudFormationAPI is the subset of the CloudFormation client used here.
type CloudFormationAPI interface {
	cloudformation.DescribeStacksAPIClient
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	UpdateStack(ctx context.Context, params *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	GetTemplate(ctx context.Context, params *cloudformation.GetTemplateInput, optFns ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error)
}

// STSAPI is the subset of the STS client used here.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Action describes what Deploy did.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionNone   Action = "none"
)

// Request describes a deployment.
type Request struct {
	StackName    string
	TemplateBody string
	// Account, when set, must match the account of the resolved credentials.
	Account      string
	Capabilities []types.Capability
}

// Result reports the outcome of a deployment.
type Result struct {
	StackName string            `json:"stack_name"`
	Action    Action            `json:"action"`
	Outputs   map[string]string `json:"outputs"`
}

// Deployer drives CloudFormation stack lifecycles.
type Deployer struct {
	cfn         CloudFormationAPI
	sts         STSAPI
	logger      *slog.Logger
	waitTimeout time.Duration
}

// Option configures a Deployer.
type Option func(*Deployer)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deployer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithWaitTimeout overrides DefaultWaitTimeout.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(d *Deployer) {
		if timeout > 0 {
			d.waitTimeout = timeout
		}
	}
}

// New returns a Deployer using the given clients.
func New(cfn CloudFormationAPI, stsClient STSAPI, opts ...Option) *Deployer {
	d := &Deployer{
		cfn:         cfn,
		sts:         stsClient,
		logger:      slog.New(slog.DiscardHandler),
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromConfig loads the default AWS configuration and returns a Deployer
// backed by real CloudFormation and STS clients. An empty region defers to
// the SDK's resolution chain.
func NewFromConfig(ctx context.Context, region string, opts ...Option) (*Deployer, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	return New(cloudformation.NewFromConfig(cfg), sts.NewFromConfig(cfg), opts...), nil
}

// Deploy creates the stack when it does not exist and updates it otherwise,
// then waits for CloudFormation to finish and returns the stack outputs.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*Result, error) {
	if req.StackName == "" {
		return nil, errors.New("stack name is required")
	}
	if req.TemplateBody == "" {
		return nil, errors.New("template body is required")
	}

	if req.Account != "" {
		if err := d.checkAccount(ctx, req.Account); err != nil {
			return nil, err
		}
	}

	stack, err := d.describe(ctx, req.StackName)
	switch {
	case errors.Is(err, ErrStackNotFound):
		stack = nil
	case err != nil:
		return nil, err
	}

	action := ActionCreate
	if stack != nil && stack.StackStatus != types.StackStatusReviewInProgress {
		if stack.StackStatus == types.StackStatusRollbackComplete {
			return nil, fmt.Errorf("stack %s is in %s and cannot be updated; destroy it first", req.StackName, stack.StackStatus)
		}
		action = ActionUpdate
	}

	switch action {
	case ActionCreate:
		err = d.create(ctx, req)
	case ActionUpdate:
		action, err = d.update(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	outputs, err := d.Outputs(ctx, req.StackName)
	if err != nil {
		return nil, err
	}
	return &Result{StackName: req.StackName, Action: action, Outputs: outputs}, nil
}

func (d *Deployer) create(ctx context.Context, req Request) error {
	d.logger.Info("creating stack", "stack", req.StackName)
	_, err := d.cfn.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    aws.String(req.StackName),
		TemplateBody: aws.String(req.TemplateBody),
		Capabilities: req.Capabilities,
	})
	if err != nil {
		return fmt.Errorf("creating stack %s: %w", req.StackName, err)
	}

	waiter := cloudformation.NewStackCreateCompleteWaiter(d.cfn)
	if err := waiter.Wait(ctx, describeInput(req.StackName), d.waitTimeout); err != nil {
		return fmt.Errorf("waiting for stack %s creation: %w", req.StackName, err)
	}
	d.logger.Info("stack created", "stack", req.StackName)
	return nil
}

func (d *Deployer) update(ctx context.Context, req Request) (Action, error) {
	d.logger.Info("updating stack", "stack", req.StackName)
	_, err := d.cfn.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:    aws.String(req.StackName),
		TemplateBody: aws.String(req.TemplateBody),
		Capabilities: req.Capabilities,
	})
	if err != nil {
		if isNoUpdates(err) {
			d.logger.Info("stack is up to date", "stack", req.StackName)
			return ActionNone, nil
		}
		return "", fmt.Errorf("updating stack %s: %w", req.StackName, err)
	}

	waiter := cloudformation.NewStackUpdateCompleteWaiter(d.cfn)
	if err := waiter.Wait(ctx, describeInput(req.StackName), d.waitTimeout); err != nil {
		return "", fmt.Errorf("waiting for stack %s update: %w", req.StackName, err)
	}
	d.logger.Info("stack updated", "stack", req.StackName)
	return ActionUpdate, nil
}

// Destroy deletes the stack and waits for the deletion to finish. Deleting a
// stack that does not exist is not an error.
func (d *Deployer) Destroy(ctx context.Context, stackName string) error {
	if _, err := d.describe(ctx, stackName); err != nil {
		if errors.Is(err, ErrStackNotFound) {
			d.logger.Info("stack does not exist", "stack", stackName)
			return nil
		}
		return err
	}

	d.logger.Info("deleting stack", "stack", stackName)
	if _, err := d.cfn.DeleteStack(ctx, &cloudformation.DeleteStackInput{StackName: aws.String(stackName)}); err != nil {
		return fmt.Errorf("deleting stack %s: %w", stackName, err)
	}

	waiter := cloudformation.NewStackDeleteCompleteWaiter(d.cfn)
	if err := waiter.Wait(ctx, describeInput(stackName), d.waitTimeout); err != nil {
		return fmt.Errorf("waiting for stack %s deletion: %w", stackName, err)
	}
	d.logger.Info("stack deleted", "stack", stackName)
	return nil
}

// Outputs returns the outputs of a deployed stack keyed by output name.
func (d *Deployer) Outputs(ctx context.Context, stackName string) (map[string]string, error) {
	stack, err := d.describe(ctx, stackName)
	if err != nil {
		return nil, err
	}
	outputs := make(map[string]string, len(stack.Outputs))
	for _, o := range stack.Outputs {
		outputs[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return outputs, nil
}

// LiveTemplate returns the template body of a deployed stack as submitted.
func (d *Deployer) LiveTemplate(ctx context.Context, stackName string) ([]byte, error) {
	out, err := d.cfn.GetTemplate(ctx, &cloudformation.GetTemplateInput{
		StackName:     aws.String(stackName),
		TemplateStage: types.TemplateStageOriginal,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
		}
		return nil, fmt.Errorf("getting template for stack %s: %w", stackName, err)
	}
	return []byte(aws.ToString(out.TemplateBody)), nil
}

func (d *Deployer) checkAccount(ctx context.Context, want string) error {
	if d.sts == nil {
		return errors.New("account check requested but no STS client configured")
	}
	out, err := d.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("resolving caller identity: %w", err)
	}
	if got := aws.ToString(out.Account); got != want {
		return fmt.Errorf("%w: credentials resolve to %s, expected %s", ErrAccountMismatch, got, want)
	}
	d.logger.Debug("account verified", "account", want)
	return nil
}

func (d *Deployer) describe(ctx context.Context, stackName string) (*types.Stack, error) {
	out, err := d.cfn.DescribeStacks(ctx, describeInput(stackName))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
		}
		return nil, fmt.Errorf("describing stack %s: %w", stackName, err)
	}
	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, stackName)
	}
	return &out.Stacks[0], nil
}

func describeInput(stackName string) *cloudformation.DescribeStacksInput {
	return &cloudformation.DescribeStacksInput{StackName: aws.String(stackName)}
}

// CloudFormation reports both conditions as a generic ValidationError.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		apiErr.ErrorCode() == "ValidationError" &&
		strings.Contains(apiErr.ErrorMessage(), "does not exist")
}

func isNoUpdates(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) &&
		apiErr.ErrorCode() == "ValidationError" &&
		strings.Contains(apiErr.ErrorMessage(), "No updates are to be performed")
}

// SortedOutputKeys returns output names in lexical order.
func SortedOutputKeys(outputs map[string]string) []string {
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
