package github

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/ini.v1"
)

// TokenEnvVar is consulted when no token flag is given.
const TokenEnvVar = "GHTT_TOKEN"

// credentialsFile returns the path of the stored credentials,
// ~/.config/ghtt/credentials.
func credentialsFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ghtt", "credentials"), nil
}

// ResolveToken finds the API token to use, in order: the explicit flag
// value, the GHTT_TOKEN environment variable, the stored credentials
// file, and finally an interactive hidden prompt for the given host.
func ResolveToken(flagToken, host string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if token := os.Getenv(TokenEnvVar); token != "" {
		return token, nil
	}
	if token, err := storedToken(host); err == nil && token != "" {
		return token, nil
	}

	token, err := promptToken(host)
	if err != nil {
		return "", err
	}
	// Persist the token so the next run skips the prompt.
	if err := StoreToken(host, token); err != nil {
		fmt.Printf("Warning: could not store token: %v\n", err)
	}
	return token, nil
}

// storedToken reads the token for host from the credentials file. The
// file is an ini document with one section per host.
func storedToken(host string) (string, error) {
	path, err := credentialsFile()
	if err != nil {
		return "", err
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return "", err
	}
	return cfg.Section(host).Key("token").String(), nil
}

// StoreToken saves the token for host in the credentials file so later
// runs do not prompt again.
func StoreToken(host, token string) error {
	path, err := credentialsFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	cfg := ini.Empty()
	if existing, err := ini.Load(path); err == nil {
		cfg = existing
	}
	cfg.Section(host).Key("token").SetValue(token)

	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return os.Chmod(path, 0600)
}

// readPassword reads a hidden line from the terminal. Replaced in
// tests, which have no TTY.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(syscall.Stdin))
}

func promptToken(host string) (string, error) {
	fmt.Printf("%s token: ", host)
	raw, err := readPassword()
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("no token provided")
	}
	return string(raw), nil
}

// NewClientForHost builds a client for the configured instance,
// routing github.com to the public API and anything else through the
// enterprise endpoint.
func NewClientForHost(host, token string) (*Client, error) {
	if host == "" || host == "github.com" {
		return NewClient(token), nil
	}
	return NewEnterpriseClient(host, token)
}
