package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/prompt"
)

var (
	grantStudents string
	grantGroups   string
	grantReadOnly bool
	grantYes      bool
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant students access to their repository",
	Long: `Grant each student pull/push access (the collaborator role) to their
repository in the organization specified by the url.
If students already have access, this will force set the new access.
Thus --read-only will change existing push access to pull access.`,
	RunE: runGrant,
}

func init() {
	grantCmd.Flags().StringVar(&grantStudents, "students", "", "Comma-separated list of usernames. Defaults to all students")
	grantCmd.Flags().StringVar(&grantGroups, "groups", "", "Comma-separated list of group names. Defaults to all groups")
	grantCmd.Flags().BoolVar(&grantReadOnly, "read-only", false, "Grant only pull access instead of push. Issues can still be created and replied to")
	grantCmd.Flags().BoolVar(&grantYes, "yes", false, "Process all students/groups without confirmation")
}

func runGrant(_ *cobra.Command, _ []string) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	fmt.Println("# Granting students permission to their repository..")

	asn, err := rc.loadTargets(splitList(grantStudents), splitList(grantGroups))
	if err != nil {
		return err
	}

	permission := "push"
	if grantReadOnly {
		permission = "pull"
	}

	asker := prompt.NewAsker(grantYes, "give students")

	for _, target := range asn.Targets() {
		if _, err := rc.client.GetRepo(rc.org, target.Name); err != nil {
			if github.IsNotFound(err) {
				fmt.Printf("Warning: repository %s not found, skipping\n", target.URL)
				continue
			}
			return err
		}

		usernames := make([]string, 0, len(target.Students))
		for _, s := range target.Students {
			usernames = append(usernames, s.Username)
		}

		subject := fmt.Sprintf("%s %s access to %s", strings.Join(usernames, ", "), permission, target.URL)
		proceed, err := asker.ShouldProceed(subject)
		if err != nil {
			return err
		}
		if !proceed {
			continue
		}

		fmt.Printf("Granting students %v %s access to %s\n", usernames, permission, target.URL)
		for _, student := range target.Students {
			if err := rc.client.AddCollaborator(rc.org, target.Name, student.Username, permission); err != nil {
				if github.IsNotFound(err) {
					fmt.Printf("Warning: %s (%s) does not have a GitHub account, skipping\n",
						student.Username, student.Comment)
					continue
				}
				fmt.Printf("Warning: could not grant %s (%s), skipping: %v\n",
					student.Username, student.Comment, err)
			}
		}
	}

	return nil
}
