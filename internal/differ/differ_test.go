package differ

import (
	"testing"

	n8n "github.com/lex00/n8n-aws-go"
)

func TestCompare(t *testing.T) {
	t1 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"PublicSubnet1": {Type: "AWS::EC2::Subnet", Properties: map[string]any{"CidrBlock": "10.0.0.0/18"}},
			"PublicSubnet2": {Type: "AWS::EC2::Subnet", Properties: map[string]any{"CidrBlock": "10.0.64.0/18"}},
		},
	}

	t2 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"PublicSubnet1": {Type: "AWS::EC2::Subnet", Properties: map[string]any{"CidrBlock": "10.0.0.0/24"}},
			"PrivateSubnet1": {Type: "AWS::EC2::Subnet", Properties: map[string]any{"CidrBlock": "10.0.128.0/18"}},
		},
	}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	// PublicSubnet2 was removed
	if len(result.Diff.Removed) != 1 {
		t.Errorf("Removed = %d, want 1", len(result.Diff.Removed))
	} else if result.Diff.Removed[0].Resource != "PublicSubnet2" {
		t.Errorf("Removed[0].Resource = %s, want PublicSubnet2", result.Diff.Removed[0].Resource)
	}

	// PrivateSubnet1 was added
	if len(result.Diff.Added) != 1 {
		t.Errorf("Added = %d, want 1", len(result.Diff.Added))
	} else if result.Diff.Added[0].Resource != "PrivateSubnet1" {
		t.Errorf("Added[0].Resource = %s, want PrivateSubnet1", result.Diff.Added[0].Resource)
	}

	// PublicSubnet1 was modified
	if len(result.Diff.Modified) != 1 {
		t.Errorf("Modified = %d, want 1", len(result.Diff.Modified))
	} else if result.Diff.Modified[0].Resource != "PublicSubnet1" {
		t.Errorf("Modified[0].Resource = %s, want PublicSubnet1", result.Diff.Modified[0].Resource)
	}

	// Summary
	if result.Summary.Total != 3 {
		t.Errorf("Summary.Total = %d, want 3", result.Summary.Total)
	}
}

func TestCompareIdentical(t *testing.T) {
	tmpl := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"N8nCluster": {Type: "AWS::ECS::Cluster", Properties: map[string]any{"ClusterName": "n8n"}},
		},
	}

	result, err := Compare(tmpl, tmpl, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if result.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0 for identical templates", result.Summary.Total)
	}
}

func TestCompareEmpty(t *testing.T) {
	t1 := &n8n.Template{Resources: map[string]n8n.ResourceDef{}}
	t2 := &n8n.Template{Resources: map[string]n8n.ResourceDef{}}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if result.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0", result.Summary.Total)
	}
}

func TestCompareTypeChange(t *testing.T) {
	t1 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"N8nDbInstance": {Type: "AWS::RDS::DBInstance"},
		},
	}

	t2 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"N8nDbInstance": {Type: "AWS::RDS::DBCluster"},
		},
	}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if len(result.Diff.Modified) != 1 {
		t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
	}

	found := false
	for _, change := range result.Diff.Modified[0].Changes {
		if change == "Type changed: AWS::RDS::DBInstance → AWS::RDS::DBCluster" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected type change to be detected")
	}
}

func TestCompareProperties(t *testing.T) {
	tests := []struct {
		name    string
		props1  map[string]any
		props2  map[string]any
		wantLen int
	}{
		{
			name:    "identical",
			props1:  map[string]any{"Key": "value"},
			props2:  map[string]any{"Key": "value"},
			wantLen: 0,
		},
		{
			name:    "added property",
			props1:  map[string]any{},
			props2:  map[string]any{"Key": "value"},
			wantLen: 1,
		},
		{
			name:    "removed property",
			props1:  map[string]any{"Key": "value"},
			props2:  map[string]any{},
			wantLen: 1,
		},
		{
			name:    "modified property",
			props1:  map[string]any{"Key": "value1"},
			props2:  map[string]any{"Key": "value2"},
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := compareProperties("", tt.props1, tt.props2, Options{})
			if len(changes) != tt.wantLen {
				t.Errorf("compareProperties() returned %d changes, want %d", len(changes), tt.wantLen)
			}
		})
	}
}

func TestEqualStringSlices(t *testing.T) {
	tests := []struct {
		a, b []string
		want bool
	}{
		{nil, nil, true},
		{[]string{}, []string{}, true},
		{[]string{"a", "b"}, []string{"a", "b"}, true},
		{[]string{"a"}, []string{"b"}, false},
		{[]string{"a"}, []string{"a", "b"}, false},
	}

	for _, tt := range tests {
		got := equalStringSlices(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("equalStringSlices(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareOutputs(t *testing.T) {
	t1 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{},
		Outputs: map[string]n8n.Output{
			"LoadBalancerDNS": {Value: map[string]any{"Fn::GetAtt": []any{"N8nServiceLB", "DNSName"}}},
			"Legacy":          {Value: "x"},
		},
	}
	t2 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{},
		Outputs: map[string]n8n.Output{
			"LoadBalancerDNS": {Value: map[string]any{"Fn::GetAtt": []any{"OtherLB", "DNSName"}}},
			"ServiceName":     {Value: "n8n"},
		},
	}

	result, err := Compare(t1, t2, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	want := []string{"Legacy removed", "LoadBalancerDNS modified", "ServiceName added"}
	if len(result.Diff.Outputs) != len(want) {
		t.Fatalf("Outputs = %v, want %v", result.Diff.Outputs, want)
	}
	for i := range want {
		if result.Diff.Outputs[i] != want[i] {
			t.Errorf("Outputs[%d] = %s, want %s", i, result.Diff.Outputs[i], want[i])
		}
	}
	if result.Summary.Total != 3 {
		t.Errorf("Summary.Total = %d, want 3", result.Summary.Total)
	}
}

func TestCompareNumbersByValue(t *testing.T) {
	synthesized := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"N8nService": {Type: "AWS::ECS::Service", Properties: map[string]any{"DesiredCount": int64(1)}},
		},
	}
	loaded := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"N8nService": {Type: "AWS::ECS::Service", Properties: map[string]any{"DesiredCount": float64(1)}},
		},
	}

	result, err := Compare(synthesized, loaded, Options{})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0", result.Summary.Total)
	}
}

func TestCompareIgnoreOrder(t *testing.T) {
	t1 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"N8nDbSubnetGroup": {Type: "AWS::RDS::DBSubnetGroup", Properties: map[string]any{
				"SubnetIds": []any{map[string]any{"Ref": "A"}, map[string]any{"Ref": "B"}},
			}},
		},
	}
	t2 := &n8n.Template{
		Resources: map[string]n8n.ResourceDef{
			"N8nDbSubnetGroup": {Type: "AWS::RDS::DBSubnetGroup", Properties: map[string]any{
				"SubnetIds": []any{map[string]any{"Ref": "B"}, map[string]any{"Ref": "A"}},
			}},
		},
	}

	strict, _ := Compare(t1, t2, Options{})
	if strict.Summary.Modified != 1 {
		t.Errorf("Modified = %d, want 1 without IgnoreOrder", strict.Summary.Modified)
	}

	relaxed, _ := Compare(t1, t2, Options{IgnoreOrder: true})
	if relaxed.Summary.Modified != 0 {
		t.Errorf("Modified = %d, want 0 with IgnoreOrder", relaxed.Summary.Modified)
	}
}

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "json",
			body: `{"AWSTemplateFormatVersion":"2010-09-09","Resources":{"N8nCluster":{"Type":"AWS::ECS::Cluster"}}}`,
		},
		{
			name: "yaml",
			body: "AWSTemplateFormatVersion: \"2010-09-09\"\nResources:\n  N8nCluster:\n    Type: AWS::ECS::Cluster\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate([]byte(tt.body))
			if err != nil {
				t.Fatalf("ParseTemplate() error = %v", err)
			}
			if tmpl.Resources["N8nCluster"].Type != "AWS::ECS::Cluster" {
				t.Errorf("unexpected resources: %v", tmpl.Resources)
			}
		})
	}

	if _, err := ParseTemplate([]byte("\t: : not a template")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadTemplate_MissingFile(t *testing.T) {
	if _, err := LoadTemplate(t.TempDir() + "/absent.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
