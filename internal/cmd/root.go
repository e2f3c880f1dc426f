package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/config"
	"github.com/idlab-discover/ghtt/pkg/prompt"
)

var (
	rootToken string
	rootURL   string
)

var rootCmd = &cobra.Command{
	Use:   "ghtt",
	Short: "A CLI tool for course staff to manage student repositories on GitHub",
	Long: `ghtt helps teachers manage courses and exams that use GitHub. It creates
one repository per student or per group from a template, grants and revokes
access, opens update pull requests, and populates each repository with a
roster-specific set of issues and milestones.

Configuration is read from ghtt.yaml in the current directory.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootToken, "token", "t", "", "GitHub authentication token")
	rootCmd.PersistentFlags().StringVarP(&rootURL, "url", "u", "", "URL of the organization (overrides url in ghtt.yaml)")
	rootCmd.AddCommand(assignmentCmd)
	rootCmd.AddCommand(searchCmd)
}

// loadConfig reads ghtt.yaml and applies the --url override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rootURL != "" {
		cfg.URL = rootURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
