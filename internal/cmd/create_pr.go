package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/gitvcs"
	"github.com/idlab-discover/ghtt/pkg/prompt"
)

var (
	createPRBranch        string
	createPRTitle         string
	createPRBody          string
	createPRSource        string
	createPRAlreadyPushed bool
	createPRStudents      string
	createPRGroups        string
	createPRYes           bool
)

var createPRCmd = &cobra.Command{
	Use:   "create-pr",
	Short: "Push updated code and open a pull request in student repositories",
	Long: `Pushes updated code to a new branch on students repositories and creates
a pull request to merge that branch into the default branch.`,
	RunE: runCreatePR,
}

func init() {
	createPRCmd.Flags().StringVar(&createPRBranch, "branch", "", "Name of the branch to create in students repos")
	createPRCmd.Flags().StringVar(&createPRTitle, "title", "", "Title of the pull request")
	createPRCmd.Flags().StringVar(&createPRBody, "body", "", "Body of the pull request (the message)")
	createPRCmd.Flags().StringVarP(&createPRSource, "source", "s", "", "Source directory (defaults to source in ghtt.yaml)")
	createPRCmd.Flags().BoolVarP(&createPRAlreadyPushed, "branch-already-pushed", "B", false, "Branch has already been pushed, so this doesn't need to be done anymore")
	createPRCmd.Flags().StringVar(&createPRStudents, "students", "", "Comma-separated list of usernames. Defaults to all students")
	createPRCmd.Flags().StringVar(&createPRGroups, "groups", "", "Comma-separated list of group names. Defaults to all groups")
	createPRCmd.Flags().BoolVar(&createPRYes, "yes", false, "Process all students/groups without confirmation")

	_ = createPRCmd.MarkFlagRequired("branch")
	_ = createPRCmd.MarkFlagRequired("title")
	_ = createPRCmd.MarkFlagRequired("body")
}

func runCreatePR(_ *cobra.Command, _ []string) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	source := createPRSource
	if source == "" {
		source = rc.cfg.Source
	}

	fmt.Printf("# Branch: %q\n", createPRBranch)
	fmt.Printf("# Title: %q\n", createPRTitle)
	fmt.Printf("# Message: %q\n", createPRBody)
	if createPRAlreadyPushed {
		fmt.Println("# Branch has been pushed already.")
	} else {
		fmt.Printf("# Source directory: %q\n", source)
	}
	fmt.Println("# Creating update pr..")

	if err := confirm("Please check if the above information is correct. Do you want to continue"); err != nil {
		return err
	}

	fmt.Println("# Creating pull request in student repositories..")

	asn, err := rc.loadTargets(splitList(createPRStudents), splitList(createPRGroups))
	if err != nil {
		return err
	}
	targets, err := rc.checkGroupSizes(asn)
	if err != nil {
		return err
	}

	asker := prompt.NewAsker(createPRYes, "create the PR for")
	local := gitvcs.New(source)
	defaultBranch := rc.cfg.DefaultBranch

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

		if !createPRAlreadyPushed {
			fmt.Printf("\nPushing %s:%s to %s\n", defaultBranch, createPRBranch, repo.SSHURL)
			if err := local.Push(repo.SSHURL, fmt.Sprintf("%s:%s", defaultBranch, createPRBranch)); err != nil {
				return err
			}
		} else {
			fmt.Printf("Creating pull request in %s\n", target.Name)
		}

		pr, err := rc.client.CreatePullRequest(rc.org, target.Name,
			createPRTitle, createPRBody, defaultBranch, createPRBranch)
		if err != nil {
			fmt.Printf("Warning: could not create pull request in %s, skipping: %v\n", target.Name, err)
			continue
		}
		fmt.Printf("created pull request %s\n", pr.HTMLURL)
	}

	return nil
}

// confirm asks a yes/no question and returns ErrAborted on no.
func confirm(question string) error {
	p := promptui.Prompt{Label: question, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return prompt.ErrAborted
		}
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
