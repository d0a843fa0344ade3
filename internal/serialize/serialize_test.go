package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/n8n-aws-go/intrinsics"
	"github.com/lex00/n8n-aws-go/resources/ec2"
	"github.com/lex00/n8n-aws-go/resources/rds"
)

type testInstance struct {
	DBName      string            `json:"DBName,omitempty"`
	Public      any               `json:"PubliclyAccessible,omitempty"`
	Tags        []testTag         `json:"Tags,omitempty"`
	Endpoint    *testEndpoint     `json:"Endpoint,omitempty"`
	Parameters  map[string]string `json:"Parameters,omitempty"`
	internal    string
	Ignored     string `json:"-"`
}

type testTag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

type testEndpoint struct {
	Port int `json:"Port"`
}

func TestResource_SimpleStruct(t *testing.T) {
	props, err := Resource(testInstance{DBName: "n8n"})
	require.NoError(t, err)

	assert.Equal(t, "n8n", props["DBName"])
	assert.NotContains(t, props, "Tags")
	assert.NotContains(t, props, "Endpoint")
	assert.NotContains(t, props, "PubliclyAccessible")
}

func TestResource_KeepsExplicitFalse(t *testing.T) {
	props, err := Resource(rds.DBInstance{PubliclyAccessible: false, DeletionProtection: false})
	require.NoError(t, err)

	assert.Equal(t, false, props["PubliclyAccessible"])
	assert.Equal(t, false, props["DeletionProtection"])
	assert.NotContains(t, props, "Engine")
}

func TestResource_NestedValues(t *testing.T) {
	props, err := Resource(testInstance{
		DBName:     "n8n",
		Tags:       []testTag{{Key: "app", Value: "n8n"}},
		Endpoint:   &testEndpoint{Port: 5432},
		Parameters: map[string]string{"rds.force_ssl": "0"},
		internal:   "hidden",
		Ignored:    "hidden",
	})
	require.NoError(t, err)

	tags := props["Tags"].([]any)
	require.Len(t, tags, 1)
	assert.Equal(t, "app", tags[0].(map[string]any)["Key"])

	endpoint := props["Endpoint"].(map[string]any)
	assert.EqualValues(t, 5432, endpoint["Port"])

	params := props["Parameters"].(map[string]any)
	assert.Equal(t, "0", params["rds.force_ssl"])

	assert.NotContains(t, props, "internal")
	assert.NotContains(t, props, "Ignored")
}

func TestResource_Intrinsics(t *testing.T) {
	props, err := Resource(ec2.Subnet{
		VpcId:     intrinsics.RefTo("N8nVpc"),
		CidrBlock: "10.0.0.0/18",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Ref": "N8nVpc"}, props["VpcId"])
}

func TestResource_NonStruct(t *testing.T) {
	props, err := Resource("not a struct")
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestReferences(t *testing.T) {
	tests := []struct {
		name     string
		props    any
		expected []Reference
	}{
		{
			name:     "ref",
			props:    map[string]any{"VpcId": map[string]any{"Ref": "N8nVpc"}},
			expected: []Reference{{Target: "N8nVpc", Kind: KindRef}},
		},
		{
			name: "getatt list form",
			props: map[string]any{
				"CidrIp": map[string]any{"Fn::GetAtt": []any{"N8nVpc", "CidrBlock"}},
			},
			expected: []Reference{{Target: "N8nVpc", Kind: KindGetAtt}},
		},
		{
			name:     "getatt string form",
			props:    map[string]any{"Host": map[string]any{"Fn::GetAtt": "N8nDb.Endpoint.Address"}},
			expected: []Reference{{Target: "N8nDb", Kind: KindGetAtt}},
		},
		{
			name: "sub skips escaped and local variables",
			props: map[string]any{
				"Name": map[string]any{"Fn::Sub": []any{
					"${AWS::StackName}-${Cluster.Arn}-${!Literal}-${Local}",
					map[string]any{"Local": map[string]any{"Ref": "N8nSecret"}},
				}},
			},
			expected: []Reference{
				{Target: "AWS::StackName", Kind: KindSub},
				{Target: "Cluster", Kind: KindSub},
				{Target: "N8nSecret", Kind: KindRef},
			},
		},
		{
			name: "nested in lists and deduplicated",
			props: map[string]any{
				"Subnets": []any{
					map[string]any{"Ref": "PrivateSubnet1"},
					map[string]any{"Ref": "PrivateSubnet2"},
					map[string]any{"Ref": "PrivateSubnet1"},
				},
			},
			expected: []Reference{
				{Target: "PrivateSubnet1", Kind: KindRef},
				{Target: "PrivateSubnet2", Kind: KindRef},
			},
		},
		{
			name:     "plain values",
			props:    map[string]any{"Port": 5678, "Protocol": "HTTP"},
			expected: []Reference{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, References(tt.props))
		})
	}
}
