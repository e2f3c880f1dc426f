package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/prompt"
)

var (
	removeGrantStudents string
	removeGrantGroups   string
	removeGrantYes      bool
)

var removeGrantCmd = &cobra.Command{
	Use:   "remove-grant",
	Short: "Remove students' access to their repository",
	Long: `Removes students' access to their repository and cancels any open
invitation for that student.

Hint: to remove only push access, but keep read-only access, use the grant
command with --read-only to update the existing permissions.`,
	RunE: runRemoveGrant,
}

func init() {
	removeGrantCmd.Flags().StringVar(&removeGrantStudents, "students", "", "Comma-separated list of usernames. Defaults to all students")
	removeGrantCmd.Flags().StringVar(&removeGrantGroups, "groups", "", "Comma-separated list of group names. Defaults to all groups")
	removeGrantCmd.Flags().BoolVar(&removeGrantYes, "yes", false, "Process all students/groups without confirmation")
}

func runRemoveGrant(_ *cobra.Command, _ []string) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	fmt.Println("# Removing students' permission to their repository..")

	asn, err := rc.loadTargets(splitList(removeGrantStudents), splitList(removeGrantGroups))
	if err != nil {
		return err
	}

	asker := prompt.NewAsker(removeGrantYes, "remove grants from")

	for _, target := range asn.Targets() {
		if _, err := rc.client.GetRepo(rc.org, target.Name); err != nil {
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

		members := make(map[string]bool, len(target.Students))
		for _, s := range target.Students {
			members[s.Username] = true
		}

		// Cancel open invitations before removing collaborators, so a
		// student can not accept an invitation in between.
		invitations, err := rc.client.ListPendingInvitations(rc.org, target.Name)
		if err != nil {
			return err
		}
		for _, inv := range invitations {
			if !members[inv.Invitee] {
				continue
			}
			fmt.Printf("Removing invitation for student %q for repo %q\n", inv.Invitee, target.Name)
			if err := rc.client.DeleteInvitation(rc.org, target.Name, inv.ID); err != nil {
				return err
			}
		}

		for _, student := range target.Students {
			fmt.Printf("Removing %q as collaborator from %q\n", student.Username, target.Name)
			if err := rc.client.RemoveCollaborator(rc.org, target.Name, student.Username); err != nil {
				return err
			}
		}
	}

	return nil
}
