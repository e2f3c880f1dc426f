package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where ghtt looks for its configuration when no
// explicit path is given.
const DefaultPath = "ghtt.yaml"

// Config is the fully typed ghtt configuration. It is loaded once at
// startup and validated eagerly, so missing keys surface before any
// remote call is made.
type Config struct {
	URL           string `yaml:"url"`
	DefaultBranch string `yaml:"default-branch"`
	Source        string `yaml:"source"`
	// ExpectedGroupSize is a pointer so an explicit 0, which disables
	// the group-size check, is distinguishable from an absent key.
	ExpectedGroupSize   *int          `yaml:"expected-group-size"`
	ExpectedMentorCount int           `yaml:"expected-mentors-per-group"`
	Repos               ReposConfig   `yaml:"repos"`
	Students            *RosterConfig `yaml:"students"`
	Mentors             *RosterConfig `yaml:"mentors"`
}

// ReposConfig holds the settings used when creating student repositories.
type ReposConfig struct {
	NameTemplate        string `yaml:"name-template"`
	HasIssues           bool   `yaml:"has-issues"`
	HasWiki             bool   `yaml:"has-wiki"`
	RequirePullRequests bool   `yaml:"require-pull-requests"`
}

// RosterConfig describes one tabular roster source and how its columns
// map onto Person fields.
type RosterConfig struct {
	Source       string       `yaml:"source"`
	FieldMapping FieldMapping `yaml:"field-mapping"`
}

// FieldMapping maps roster columns onto Person fields. Comment is a
// template rendered against the raw row, e.g. "{{.record.name}}".
type FieldMapping struct {
	Username string `yaml:"username"`
	Fullname string `yaml:"fullname"`
	Email    string `yaml:"email"`
	Comment  string `yaml:"comment"`
	Group    string `yaml:"group"`
	Groups   string `yaml:"groups"`
}

// Load reads and validates the configuration at the default location.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath)
}

// LoadFromPath reads and validates the configuration at path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s not found in the current directory", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DefaultBranch == "" {
		c.DefaultBranch = "master"
	}
	if c.ExpectedGroupSize == nil {
		one := 1
		c.ExpectedGroupSize = &one
	}
	if c.Repos.NameTemplate == "" {
		if c.Grouped() {
			c.Repos.NameTemplate = "{organization}-{student_group}"
		} else {
			c.Repos.NameTemplate = "{organization}-{student_username}"
		}
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("config: url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("config: url %q is not a valid URL", c.URL)
	}
	if strings.Trim(u.Path, "/") == "" {
		return fmt.Errorf("config: url %q must include the organization path", c.URL)
	}
	if c.Students != nil {
		if err := c.Students.validate("students"); err != nil {
			return err
		}
	}
	if c.Mentors != nil {
		if err := c.Mentors.validate("mentors"); err != nil {
			return err
		}
	}
	return nil
}

func (r *RosterConfig) validate(section string) error {
	if r.Source == "" {
		return fmt.Errorf("config: %s.source is required", section)
	}
	if r.FieldMapping.Username == "" {
		return fmt.Errorf("config: %s.field-mapping.username is required", section)
	}
	return nil
}

// Organization returns the organization name, derived from the last
// path segment of the configured URL.
func (c *Config) Organization() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// Host returns the host of the configured GitHub instance.
func (c *Config) Host() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Grouped reports whether the student roster defines a grouping field.
func (c *Config) Grouped() bool {
	return c.Students != nil && c.Students.FieldMapping.Group != ""
}

// RepoURL returns the browse URL of a repository in the organization.
func (c *Config) RepoURL(name string) string {
	return strings.TrimRight(c.URL, "/") + "/" + name
}
