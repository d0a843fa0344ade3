package deploy

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCloudFormation keeps stacks in memory and settles every operation
// immediately, so the SDK waiters succeed on their first poll.
type fakeCloudFormation struct {
	mu      sync.Mutex
	stacks  map[string]*fakeStack
	outputs map[string]string
	calls   []string
}

type fakeStack struct {
	status types.StackStatus
	body   string
}

func newFakeCloudFormation() *fakeCloudFormation {
	return &fakeCloudFormation{
		stacks:  map[string]*fakeStack{},
		outputs: map[string]string{"LoadBalancerDNS": "n8n-123.us-east-1.elb.amazonaws.com"},
	}
}

func validationError(msg string) error {
	return &smithy.GenericAPIError{Code: "ValidationError", Message: msg}
}

func (f *fakeCloudFormation) DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.StackName)
	s, ok := f.stacks[name]
	if !ok {
		return nil, validationError(fmt.Sprintf("Stack with id %s does not exist", name))
	}
	stack := types.Stack{StackName: aws.String(name), StackStatus: s.status}
	for k, v := range f.outputs {
		stack.Outputs = append(stack.Outputs, types.Output{OutputKey: aws.String(k), OutputValue: aws.String(v)})
	}
	return &cloudformation.DescribeStacksOutput{Stacks: []types.Stack{stack}}, nil
}

func (f *fakeCloudFormation) CreateStack(ctx context.Context, in *cloudformation.CreateStackInput, _ ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	f.stacks[aws.ToString(in.StackName)] = &fakeStack{status: types.StackStatusCreateComplete, body: aws.ToString(in.TemplateBody)}
	return &cloudformation.CreateStackOutput{StackId: in.StackName}, nil
}

func (f *fakeCloudFormation) UpdateStack(ctx context.Context, in *cloudformation.UpdateStackInput, _ ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update")
	s := f.stacks[aws.ToString(in.StackName)]
	if s.body == aws.ToString(in.TemplateBody) {
		return nil, validationError("No updates are to be performed.")
	}
	s.body = aws.ToString(in.TemplateBody)
	s.status = types.StackStatusUpdateComplete
	return &cloudformation.UpdateStackOutput{StackId: in.StackName}, nil
}

func (f *fakeCloudFormation) DeleteStack(ctx context.Context, in *cloudformation.DeleteStackInput, _ ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	delete(f.stacks, aws.ToString(in.StackName))
	return &cloudformation.DeleteStackOutput{}, nil
}

func (f *fakeCloudFormation) GetTemplate(ctx context.Context, in *cloudformation.GetTemplateInput, _ ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := aws.ToString(in.StackName)
	s, ok := f.stacks[name]
	if !ok {
		return nil, validationError(fmt.Sprintf("Stack with id %s does not exist", name))
	}
	return &cloudformation.GetTemplateOutput{TemplateBody: aws.String(s.body)}, nil
}

type fakeSTS struct {
	account string
}

func (f fakeSTS) GetCallerIdentity(ctx context.Context, in *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.account)}, nil
}

const body = `{"AWSTemplateFormatVersion":"2010-09-09","Resources":{}}`

func newTestDeployer(cfn *fakeCloudFormation) *Deployer {
	return New(cfn, fakeSTS{account: "123456789012"}, WithWaitTimeout(time.Minute))
}

func TestDeploy_CreatesMissingStack(t *testing.T) {
	cfn := newFakeCloudFormation()
	d := newTestDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{StackName: "N8nStack", TemplateBody: body})
	require.NoError(t, err)

	assert.Equal(t, ActionCreate, result.Action)
	assert.Equal(t, "n8n-123.us-east-1.elb.amazonaws.com", result.Outputs["LoadBalancerDNS"])
	assert.Equal(t, []string{"create"}, cfn.calls)
}

func TestDeploy_UpdatesExistingStack(t *testing.T) {
	cfn := newFakeCloudFormation()
	cfn.stacks["N8nStack"] = &fakeStack{status: types.StackStatusCreateComplete, body: "{}"}
	d := newTestDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{StackName: "N8nStack", TemplateBody: body})
	require.NoError(t, err)

	assert.Equal(t, ActionUpdate, result.Action)
	assert.Equal(t, []string{"update"}, cfn.calls)
}

func TestDeploy_NoUpdatesIsSuccess(t *testing.T) {
	cfn := newFakeCloudFormation()
	cfn.stacks["N8nStack"] = &fakeStack{status: types.StackStatusUpdateComplete, body: body}
	d := newTestDeployer(cfn)

	result, err := d.Deploy(context.Background(), Request{StackName: "N8nStack", TemplateBody: body})
	require.NoError(t, err)
	assert.Equal(t, ActionNone, result.Action)
	assert.Contains(t, result.Outputs, "LoadBalancerDNS")
}

func TestDeploy_RollbackCompleteRefused(t *testing.T) {
	cfn := newFakeCloudFormation()
	cfn.stacks["N8nStack"] = &fakeStack{status: types.StackStatusRollbackComplete}
	d := newTestDeployer(cfn)

	_, err := d.Deploy(context.Background(), Request{StackName: "N8nStack", TemplateBody: body})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROLLBACK_COMPLETE")
	assert.Empty(t, cfn.calls)
}

func TestDeploy_AccountMismatch(t *testing.T) {
	cfn := newFakeCloudFormation()
	d := newTestDeployer(cfn)

	_, err := d.Deploy(context.Background(), Request{StackName: "N8nStack", TemplateBody: body, Account: "999999999999"})
	require.ErrorIs(t, err, ErrAccountMismatch)
	assert.Empty(t, cfn.calls)
}

func TestDeploy_AccountMatch(t *testing.T) {
	cfn := newFakeCloudFormation()
	d := newTestDeployer(cfn)

	_, err := d.Deploy(context.Background(), Request{StackName: "N8nStack", TemplateBody: body, Account: "123456789012"})
	require.NoError(t, err)
}

func TestDeploy_RequiresInputs(t *testing.T) {
	d := newTestDeployer(newFakeCloudFormation())

	_, err := d.Deploy(context.Background(), Request{TemplateBody: body})
	assert.Error(t, err)

	_, err = d.Deploy(context.Background(), Request{StackName: "N8nStack"})
	assert.Error(t, err)
}

func TestDestroy(t *testing.T) {
	cfn := newFakeCloudFormation()
	cfn.stacks["N8nStack"] = &fakeStack{status: types.StackStatusCreateComplete}
	d := newTestDeployer(cfn)

	require.NoError(t, d.Destroy(context.Background(), "N8nStack"))
	assert.NotContains(t, cfn.stacks, "N8nStack")
	assert.Equal(t, []string{"delete"}, cfn.calls)
}

func TestDestroy_MissingStack(t *testing.T) {
	cfn := newFakeCloudFormation()
	d := newTestDeployer(cfn)

	require.NoError(t, d.Destroy(context.Background(), "N8nStack"))
	assert.Empty(t, cfn.calls)
}

func TestOutputs_MissingStack(t *testing.T) {
	d := newTestDeployer(newFakeCloudFormation())

	_, err := d.Outputs(context.Background(), "N8nStack")
	require.ErrorIs(t, err, ErrStackNotFound)
}

func TestLiveTemplate(t *testing.T) {
	cfn := newFakeCloudFormation()
	cfn.stacks["N8nStack"] = &fakeStack{status: types.StackStatusCreateComplete, body: body}
	d := newTestDeployer(cfn)

	data, err := d.LiveTemplate(context.Background(), "N8nStack")
	require.NoError(t, err)
	assert.JSONEq(t, body, string(data))

	_, err = d.LiveTemplate(context.Background(), "Other")
	require.ErrorIs(t, err, ErrStackNotFound)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, isNoUpdates(fmt.Errorf("wrapped: %w", validationError("No updates are to be performed."))))
	assert.False(t, isNoUpdates(validationError("Template format error")))
	assert.True(t, isNotFound(validationError("Stack with id X does not exist")))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied", Message: "does not exist"}))
	assert.False(t, isNotFound(fmt.Errorf("plain error")))
}

func TestSortedOutputKeys(t *testing.T) {
	keys := SortedOutputKeys(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a", "b"}, keys)
}
