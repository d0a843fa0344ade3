package stack

import (
	"sort"
	"strconv"

	"github.com/lex00/n8n-aws-go/internal/config"
	"github.com/lex00/n8n-aws-go/resources/ecs"
)

// EnvVar is a single container environment variable. Value is a string or
// an intrinsic resolved at deploy time.
type EnvVar struct {
	Name  string
	Value any
}

// ContainerEnvironment is the fixed set of variables passed to the n8n
// container. It is built once and never modified.
type ContainerEnvironment struct {
	vars []EnvVar
}

// NewContainerEnvironment derives the container environment from cfg.
// dbHost is the database endpoint address, usually a GetAtt.
func NewContainerEnvironment(cfg config.Config, dbHost any) ContainerEnvironment {
	url := cfg.PublicURL()
	port := strconv.Itoa(ContainerPort)
	user := cfg.BasicAuthUser
	if user == "" {
		user = config.DefaultBasicAuthUser
	}

	vars := []EnvVar{
		{"N8N_BASIC_AUTH_ACTIVE", "true"},
		{"N8N_BASIC_AUTH_USER", user},
		{"N8N_BASIC_AUTH_PASSWORD", cfg.BasicAuthPassword},
		{"N8N_HOST", "0.0.0.0"},
		{"N8N_PORT", port},
		{"N8N_PROTOCOL", "https"},
		{"N8N_EDITOR_BASE_URL", url},
		{"WEBHOOK_URL", url},
		{"N8N_ENCRYPTION_KEY", cfg.EncryptionKey},
		{"N8N_SECURE_COOKIE", "true"},
		{"N8N_ENFORCE_SETTINGS_FILE_PERMISSIONS", "false"},
		{"DB_TYPE", "postgresdb"},
		{"DB_POSTGRESDB_HOST", dbHost},
		{"DB_POSTGRESDB_PORT", strconv.Itoa(DatabasePort)},
		{"DB_POSTGRESDB_DATABASE", DatabaseName},
		{"DB_POSTGRESDB_USER", DatabaseUser},
		{"DB_POSTGRESDB_SSL", "false"},
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })

	return ContainerEnvironment{vars: vars}
}

// Len returns the number of variables.
func (e ContainerEnvironment) Len() int {
	return len(e.vars)
}

// Vars returns a copy of the variables sorted by name.
func (e ContainerEnvironment) Vars() []EnvVar {
	return append([]EnvVar(nil), e.vars...)
}

// Lookup returns the value of the named variable.
func (e ContainerEnvironment) Lookup(name string) (any, bool) {
	i := sort.Search(len(e.vars), func(i int) bool { return e.vars[i].Name >= name })
	if i < len(e.vars) && e.vars[i].Name == name {
		return e.vars[i].Value, true
	}
	return nil, false
}

// KeyValuePairs renders the variables for a container definition.
func (e ContainerEnvironment) KeyValuePairs() []any {
	out := make([]any, len(e.vars))
	for i, v := range e.vars {
		out[i] = ecs.TaskDefinition_KeyValuePair{Name: v.Name, Value: v.Value}
	}
	return out
}
