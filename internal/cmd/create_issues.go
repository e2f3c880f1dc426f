package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/prompt"
	"github.com/idlab-discover/ghtt/pkg/render"
)

var (
	createIssuesStudents string
	createIssuesGroups   string
	createIssuesYes      bool
)

var createIssuesCmd = &cobra.Command{
	Use:   "create-issues <path>",
	Short: "Create issues and milestones in student repositories",
	Long: `Create the issues and milestones defined in the given template in the
repositories of the specified users and groups.

The template is rendered once per repository and parsed as a YAML list
of records with a type of either "milestone" or "issue". Repositories
are reconciled idempotently: items that already match are skipped,
changed items are updated, and duplicate remote titles are left alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreateIssues,
}

func init() {
	createIssuesCmd.Flags().StringVar(&createIssuesStudents, "students", "", "Comma-separated list of usernames. Defaults to all students")
	createIssuesCmd.Flags().StringVar(&createIssuesGroups, "groups", "", "Comma-separated list of group names. Defaults to all groups")
	createIssuesCmd.Flags().BoolVar(&createIssuesYes, "yes", false, "Process all students/groups without confirmation")
}

func runCreateIssues(_ *cobra.Command, args []string) error {
	path := args[0]

	rc, err := newRunContext()
	if err != nil {
		return err
	}

	fmt.Printf("# Creating issues defined in %s...\n", path)

	templateText, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read issue template: %w", err)
	}

	asn, err := rc.loadTargets(splitList(createIssuesStudents), splitList(createIssuesGroups))
	if err != nil {
		return err
	}
	targets, err := rc.checkGroupSizes(asn)
	if err != nil {
		return err
	}

	asker := prompt.NewAsker(createIssuesYes, "create the issue(s) for")
	reconciler := github.NewReconciler(rc.client, rc.org)

	for _, target := range targets {
		repo, err := rc.client.GetRepo(rc.org, target.Name)
		if err != nil {
			if github.IsNotFound(err) {
				fmt.Printf("Warning: repository %s not found, skipping\n", target.URL)
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

		fmt.Printf("Generating issues in repo %s\n", target.URL)

		rendered, err := render.Render(string(templateText), render.Context{
			CloneURL: repo.SSHURL,
			Group:    target.Group,
			Students: target.Students,
			Mentors:  target.Mentors,
			Repo:     target,
		})
		if err != nil {
			fmt.Printf("Warning: could not render issue template for %s, skipping: %v\n", target.Name, err)
			continue
		}

		desired, err := github.ParseDesiredItems([]byte(rendered))
		if err != nil {
			fmt.Printf("Warning: invalid issue definition for %s, skipping: %v\n", target.Name, err)
			continue
		}

		if err := reconciler.Sync(target.Name, desired); err != nil {
			fmt.Printf("Warning: could not reconcile %s, skipping: %v\n", target.Name, err)
		}
	}

	return nil
}
