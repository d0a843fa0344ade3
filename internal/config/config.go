// Package config loads and validates the inputs of the n8n stack.
//
// Values come from the process environment first; an optional env file
// (".env.local" by default) fills in whatever the environment leaves unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDomainName        = "DOMAIN_NAME"
	EnvBasicAuthUser     = "N8N_BASIC_AUTH_USER"
	EnvBasicAuthPassword = "N8N_BASIC_AUTH_PASSWORD"
	EnvEncryptionKey     = "N8N_ENCRYPTION_KEY"
	EnvAccount           = "CDK_DEFAULT_ACCOUNT"
	EnvRegion            = "CDK_DEFAULT_REGION"
	EnvAWSRegion         = "AWS_REGION"
	EnvAWSDefaultRegion  = "AWS_DEFAULT_REGION"
)

const (
	// DefaultEnvFile is read when no other env file is given.
	DefaultEnvFile = ".env.local"
	// DefaultBasicAuthUser is used when N8N_BASIC_AUTH_USER is unset.
	DefaultBasicAuthUser = "admin"
)

// ErrMissingInput is wrapped by every validation failure for a required input.
var ErrMissingInput = errors.New("missing required input")

// MissingInputError names a required environment variable that is unset or empty.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return e.Name + " environment variable is required"
}

// Is makes errors.Is(err, ErrMissingInput) hold.
func (e *MissingInputError) Is(target error) bool {
	return target == ErrMissingInput
}

// Config holds the deployment inputs.
type Config struct {
	DomainName        string
	BasicAuthUser     string
	BasicAuthPassword string
	EncryptionKey     string

	// Account and Region are optional deployment targets.
	Account string
	Region  string
}

// Load reads the configuration from the process environment, falling back
// to values in envFile. A missing env file is not an error. The process
// environment is never modified.
func Load(envFile string) (Config, error) {
	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}), nil
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		DomainName:        get(EnvDomainName),
		BasicAuthUser:     get(EnvBasicAuthUser),
		BasicAuthPassword: get(EnvBasicAuthPassword),
		EncryptionKey:     get(EnvEncryptionKey),
		Account:           get(EnvAccount),
		Region:            get(EnvRegion),
	}
	if cfg.BasicAuthUser == "" {
		cfg.BasicAuthUser = DefaultBasicAuthUser
	}
	if cfg.Region == "" {
		cfg.Region = get(EnvAWSRegion)
	}
	if cfg.Region == "" {
		cfg.Region = get(EnvAWSDefaultRegion)
	}
	return cfg
}

// Validate reports every missing required input, joined.
func (c Config) Validate() error {
	var errs []error
	if c.DomainName == "" {
		errs = append(errs, &MissingInputError{Name: EnvDomainName})
	}
	if c.BasicAuthPassword == "" {
		errs = append(errs, &MissingInputError{Name: EnvBasicAuthPassword})
	}
	if c.EncryptionKey == "" {
		errs = append(errs, &MissingInputError{Name: EnvEncryptionKey})
	}
	return errors.Join(errs...)
}

// PublicURL is the externally visible base URL of the n8n editor.
func (c Config) PublicURL() string {
	return "https://" + c.DomainName
}

// String renders the configuration with secrets redacted.
func (c Config) String() string {
	return fmt.Sprintf("domain=%s user=%s password=%s encryptionKey=%s account=%s region=%s",
		c.DomainName, c.BasicAuthUser, redact(c.BasicAuthPassword), redact(c.EncryptionKey),
		c.Account, c.Region)
}

func redact(s string) string {
	if s == "" {
		return "<unset>"
	}
	return "***"
}
