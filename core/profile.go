package core

import (
	"fmt"
	"os"
	"strings"
)

// AuthMethod is the authentication variant a profile resolved to. Exactly
// one variant is picked at load time; adapters never re-inspect raw fields.
type AuthMethod int

const (
	AuthPassword AuthMethod = iota
	AuthKeyPair
)

func (a AuthMethod) String() string {
	switch a {
	case AuthPassword:
		return "password"
	case AuthKeyPair:
		return "key_pair"
	default:
		return "unknown"
	}
}

// Profile is a named, fully-resolved set of connection parameters and
// credentials. Immutable once loaded; adapters borrow it read-only for the
// duration of a run. Secret fields must never end up in errors or logs.
type Profile struct {
	Name string `yaml:"-"`

	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Role      string `yaml:"role"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`

	Password             string `yaml:"password"`
	PrivateKey           string `yaml:"private_key"`
	PrivateKeyPassphrase string `yaml:"private_key_passphrase"`

	KeepAlive bool `yaml:"client_session_keep_alive"`

	auth AuthMethod
}

// Auth returns the authentication variant resolved at load time.
func (p *Profile) Auth() AuthMethod {
	return p.auth
}

// validate checks required fields and resolves the authentication variant.
func (p *Profile) validate() error {
	if p.Account == "" {
		return fmt.Errorf("profile %q: account is required", p.Name)
	}
	if p.User == "" {
		return fmt.Errorf("profile %q: user is required", p.Name)
	}

	hasPassword := p.Password != ""
	hasKey := p.PrivateKey != ""

	switch {
	case hasPassword && hasKey:
		return fmt.Errorf("profile %q: %w", p.Name, ErrAmbiguousAuth)
	case !hasPassword && !hasKey:
		return fmt.Errorf("profile %q: %w", p.Name, ErrMissingAuth)
	case hasKey:
		p.auth = AuthKeyPair
	default:
		p.auth = AuthPassword
	}

	return nil
}

// expand substitutes ${VAR} references from the environment in every
// field, so credentials can be kept out of the profile file itself.
func (p *Profile) expand() {
	p.Account = expandEnv(p.Account)
	p.User = expandEnv(p.User)
	p.Role = expandEnv(p.Role)
	p.Warehouse = expandEnv(p.Warehouse)
	p.Database = expandEnv(p.Database)
	p.Schema = expandEnv(p.Schema)
	p.Password = expandEnv(p.Password)
	p.PrivateKey = expandEnv(p.PrivateKey)
	p.PrivateKeyPassphrase = expandEnv(p.PrivateKeyPassphrase)
}

func expandEnv(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}
	return os.Expand(value, os.Getenv)
}
