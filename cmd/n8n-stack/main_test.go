package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	n8n "github.com/lex00/n8n-aws-go"
	"github.com/lex00/n8n-aws-go/internal/config"
)

// setInputs points the process environment at a complete configuration and
// returns an env file path that does not exist.
func setInputs(t *testing.T) string {
	t.Helper()
	t.Setenv(config.EnvDomainName, "example.com")
	t.Setenv(config.EnvBasicAuthPassword, "x")
	t.Setenv(config.EnvEncryptionKey, "y")
	return filepath.Join(t.TempDir(), "missing.env")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootPersistentFlags(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		flag string
		want string
	}{
		{"env-file", ".env.local"},
		{"stack-name", "N8nStack"},
		{"verbose", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := root.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, f, "missing --%s flag", tt.flag)
			assert.Equal(t, tt.want, f.DefValue)
		})
	}
}

func TestRootSubcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"synth", "build", "list", "graph", "validate", "audit", "diff", "deploy", "destroy", "outputs", "watch", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.NotNil(t, cmd, name)
	}
}

func TestNewSynthCmd(t *testing.T) {
	cmd := newSynthCmd(&globalOptions{})

	assert.Equal(t, "synth", cmd.Use)
	assert.Contains(t, cmd.Aliases, "build")
	assert.Equal(t, "json", cmd.Flags().Lookup("format").DefValue)
	assert.NotNil(t, cmd.Flags().ShorthandLookup("o"))
}

func TestSynth_WritesTemplate(t *testing.T) {
	envFile := setInputs(t)
	out := filepath.Join(t.TempDir(), "template.json")

	_, err := execute(t, "synth", "--env-file", envFile, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var tmpl n8n.Template
	require.NoError(t, json.Unmarshal(data, &tmpl))
	assert.Contains(t, tmpl.Outputs, "LoadBalancerDNS")
	assert.Equal(t, 1, tmpl.ResourceCount("AWS::ECS::Service"))
}

func TestSynth_ReadsEnvFile(t *testing.T) {
	t.Setenv(config.EnvDomainName, "")
	t.Setenv(config.EnvBasicAuthPassword, "")
	t.Setenv(config.EnvEncryptionKey, "")

	envFile := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(envFile, []byte("DOMAIN_NAME=example.com\nN8N_BASIC_AUTH_PASSWORD=x\nN8N_ENCRYPTION_KEY=y\n"), 0o600))

	out, err := execute(t, "synth", "--env-file", envFile, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "AWSTemplateFormatVersion")
}

func TestSynth_MissingInput(t *testing.T) {
	envFile := setInputs(t)
	t.Setenv(config.EnvEncryptionKey, "")

	_, err := execute(t, "synth", "--env-file", envFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingInput)
	assert.Contains(t, err.Error(), "N8N_ENCRYPTION_KEY environment variable is required")
}

func TestSynth_UnknownFormat(t *testing.T) {
	envFile := setInputs(t)

	_, err := execute(t, "synth", "--env-file", envFile, "-f", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestList_JSON(t *testing.T) {
	envFile := setInputs(t)

	out, err := execute(t, "list", "--env-file", envFile, "-f", "json")
	require.NoError(t, err)

	var result n8n.ListResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Resources)

	seen := map[string]bool{}
	for _, r := range result.Resources {
		for _, dep := range r.DependsOn {
			assert.True(t, seen[dep], "%s listed before its dependency %s", r.Name, dep)
		}
		seen[r.Name] = true
	}
}

func TestGraph_Mermaid(t *testing.T) {
	envFile := setInputs(t)

	out, err := execute(t, "graph", "--env-file", envFile, "-f", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "N8nVpc")
}

func TestAudit_Text(t *testing.T) {
	envFile := setInputs(t)

	out, err := execute(t, "audit", "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, out, "N8N004")
	assert.Contains(t, out, "N8N005")
}

func TestAudit_InvalidCategory(t *testing.T) {
	envFile := setInputs(t)

	_, err := execute(t, "audit", "--env-file", envFile, "--category", "cost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")
}

func TestAuditCategories(t *testing.T) {
	for _, cat := range []string{"all", "security", "reliability"} {
		assert.True(t, isValidCategory(cat), cat)
	}
	assert.False(t, isValidCategory("invalid"))
}

func TestDiff_AgainstSynthesized(t *testing.T) {
	envFile := setInputs(t)
	out := filepath.Join(t.TempDir(), "template.json")

	_, err := execute(t, "synth", "--env-file", envFile, "-o", out)
	require.NoError(t, err)

	text, err := execute(t, "diff", out, "--env-file", envFile)
	require.NoError(t, err)
	assert.Contains(t, text, "No differences.")
}

func TestDiff_DetectsAddedResources(t *testing.T) {
	envFile := setInputs(t)
	baseline := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(baseline, []byte(`{"AWSTemplateFormatVersion":"2010-09-09","Resources":{}}`), 0o600))

	text, err := execute(t, "diff", baseline, "--env-file", envFile, "-f", "json")
	require.NoError(t, err)

	var result n8n.DiffResult
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.NotEmpty(t, result.Diff.Added)
	assert.Zero(t, result.Summary.Removed)
}

func TestDiff_RequiresOneBaseline(t *testing.T) {
	_, err := execute(t, "diff")
	require.Error(t, err)
}

func TestNewDiffCmd(t *testing.T) {
	cmd := newDiffCmd(&globalOptions{})

	for _, name := range []string{"format", "ignore-order", "live"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing --%s flag", name)
	}
}

func TestDestroy_RequiresConfirmation(t *testing.T) {
	_, err := execute(t, "destroy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}
