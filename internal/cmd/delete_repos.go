package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/prompt"
)

var (
	deleteReposStudents string
	deleteReposGroups   string
)

var deleteReposCmd = &cobra.Command{
	Use:   "delete-repos",
	Short: "Delete student repositories in the organization",
	Long: `Delete student repositories in the organization specified by the url.

WARNING: this is obviously a dangerous operation! Every deletion has to
be confirmed individually; there is no --yes for this command.`,
	RunE: runDeleteRepos,
}

func init() {
	deleteReposCmd.Flags().StringVar(&deleteReposStudents, "students", "", "Comma-separated list of usernames. Defaults to all students")
	deleteReposCmd.Flags().StringVar(&deleteReposGroups, "groups", "", "Comma-separated list of group names. Defaults to all groups")
}

func runDeleteRepos(_ *cobra.Command, _ []string) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	fmt.Println("# Deleting (!!!) student repositories..")

	asn, err := rc.loadTargets(splitList(deleteReposStudents), splitList(deleteReposGroups))
	if err != nil {
		return err
	}
	targets, err := rc.checkGroupSizes(asn)
	if err != nil {
		return err
	}

	asker := prompt.NewAsker(false, "delete the repo")

	for _, target := range targets {
		if _, err := rc.client.GetRepo(rc.org, target.Name); err != nil {
			if github.IsNotFound(err) {
				fmt.Printf("Warning: repository %s does not exist; skipping..\n", target.URL)
				continue
			}
			return err
		}

		proceed, err := asker.ShouldProceed(target.URL)
		if err != nil {
			return err
		}
		if !proceed {
			continue
		}

		fmt.Printf("\nDeleting repo %s\n", target.URL)
		if err := rc.client.DeleteRepo(rc.org, target.Name); err != nil {
			return err
		}
	}

	return nil
}
