package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PassphraseEnv overrides any stored admin passphrase.
const PassphraseEnv = "SLIDEDECK_ADMIN_PASSPHRASE"

// Credentials holds admin passphrases remembered per server.
type Credentials struct {
	Servers map[string]string `json:"servers,omitempty"`
}

// CredentialPath returns the path to the credentials file (~/.slidedeck/credentials.json).
func CredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".slidedeck", "credentials.json"), nil
}

// Load reads credentials from ~/.slidedeck/credentials.json.
// Returns empty credentials if the file doesn't exist.
func Load() (*Credentials, error) {
	path, err := CredentialPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return &creds, nil
}

// Save writes credentials with restricted permissions.
func Save(creds *Credentials) error {
	path, err := CredentialPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Passphrase returns the admin passphrase for the server at baseURL.
// The environment variable takes priority over stored credentials.
func Passphrase(baseURL string) string {
	if p := os.Getenv(PassphraseEnv); p != "" {
		return p
	}
	creds, err := Load()
	if err != nil {
		return ""
	}
	return creds.Servers[serverKey(baseURL)]
}

// Remember stores the passphrase for baseURL.
func Remember(baseURL, passphrase string) error {
	creds, err := Load()
	if err != nil {
		return err
	}
	if creds.Servers == nil {
		creds.Servers = make(map[string]string)
	}
	creds.Servers[serverKey(baseURL)] = passphrase
	return Save(creds)
}

// Forget removes the stored passphrase for baseURL.
func Forget(baseURL string) error {
	creds, err := Load()
	if err != nil {
		return err
	}
	if _, ok := creds.Servers[serverKey(baseURL)]; !ok {
		return nil
	}
	delete(creds.Servers, serverKey(baseURL))
	return Save(creds)
}

func serverKey(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
