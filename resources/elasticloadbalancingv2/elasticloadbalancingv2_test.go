package elasticloadbalancingv2

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	n8n "github.com/lex00/n8n-aws-go"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource n8n.Resource
		expected string
	}{
		{"LoadBalancer", LoadBalancer{}, "AWS::ElasticLoadBalancingV2::LoadBalancer"},
		{"TargetGroup", TargetGroup{}, "AWS::ElasticLoadBalancingV2::TargetGroup"},
		{"Listener", Listener{}, "AWS::ElasticLoadBalancingV2::Listener"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestRedirectListenerSerialization(t *testing.T) {
	l := Listener{
		Port:     80,
		Protocol: "HTTP",
		DefaultActions: []any{
			Listener_Action{
				Type: "redirect",
				RedirectConfig: Listener_RedirectConfig{
					Protocol:   "HTTPS",
					Port:       "443",
					StatusCode: "HTTP_301",
				},
			},
		},
	}

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Port": 80,
		"Protocol": "HTTP",
		"DefaultActions": [{
			"Type": "redirect",
			"RedirectConfig": {"Protocol": "HTTPS", "Port": "443", "StatusCode": "HTTP_301"}
		}]
	}`, string(data))
}
