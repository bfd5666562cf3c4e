package msauth

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Credentials holds Azure AD application credentials, typically loaded
// from a TOML file kept outside the repository.
type Credentials struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Validate checks that all required fields are present.
func (c Credentials) Validate() error {
	if c.TenantID == "" {
		return errors.New("tenant_id is required")
	}
	if c.ClientID == "" {
		return errors.New("client_id is required")
	}
	if c.ClientSecret == "" {
		return errors.New("client_secret is required")
	}
	return nil
}

// LoadCredentials reads and validates a TOML credentials file.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials file: %w", err)
	}

	var creds Credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials file: %w", err)
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, fmt.Errorf("invalid credentials in %s: %w", path, err)
	}
	return creds, nil
}
