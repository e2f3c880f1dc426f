package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/gitvcs"
	"github.com/idlab-discover/ghtt/pkg/prompt"
	"github.com/idlab-discover/ghtt/pkg/render"
	"github.com/idlab-discover/ghtt/pkg/roster"
)

var (
	createReposSource   string
	createReposStudents string
	createReposGroups   string
	createReposYes      bool
)

var createReposCmd = &cobra.Command{
	Use:   "create-repos",
	Short: "Create student repositories in the organization",
	Long: `Create student repositories in the organization specified by the url.
Each repository will contain a copy of the specified source and will have
force-pushing disabled so students can not rewrite history.

Note: this command does not grant students access to those repositories.
See "assignment grant".`,
	RunE: runCreateRepos,
}

func init() {
	createReposCmd.Flags().StringVar(&createReposSource, "source", "", "Path to the repo with start code (defaults to source in ghtt.yaml)")
	createReposCmd.Flags().StringVar(&createReposStudents, "students", "", "Comma-separated list of usernames. Defaults to all students")
	createReposCmd.Flags().StringVar(&createReposGroups, "groups", "", "Comma-separated list of group names. Defaults to all groups")
	createReposCmd.Flags().BoolVar(&createReposYes, "yes", false, "Process all students/groups without confirmation")
}

func runCreateRepos(_ *cobra.Command, _ []string) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	source := createReposSource
	if source == "" {
		source = rc.cfg.Source
	}

	fmt.Println("# Creating student repositories..")
	fmt.Printf("# Source: %q\n", source)

	asn, err := rc.loadTargets(splitList(createReposStudents), splitList(createReposGroups))
	if err != nil {
		return err
	}
	targets, err := rc.checkGroupSizes(asn)
	if err != nil {
		return err
	}

	asker := prompt.NewAsker(createReposYes, "create the repo")
	local := gitvcs.New(source)

	for _, target := range targets {
		if _, err := rc.client.GetRepo(rc.org, target.Name); err == nil {
			fmt.Printf("Warning: repository %s already exists; skipping..\n", target.URL)
			continue
		} else if !github.IsNotFound(err) {
			return err
		}

		proceed, err := asker.ShouldProceed(target.URL)
		if err != nil {
			return err
		}
		if !proceed {
			continue
		}

		if err := rc.createRepo(target, local); err != nil {
			return err
		}
	}

	return nil
}

func (rc *runContext) createRepo(target *roster.RepoTarget, local *gitvcs.Repo) error {
	repo, err := rc.client.CreateRepo(rc.org, target.Name, github.CreateRepoOptions{
		Private:   true,
		HasIssues: rc.cfg.Repos.HasIssues,
		HasWiki:   rc.cfg.Repos.HasWiki,
	})
	if err != nil {
		return err
	}

	defaultBranch := rc.cfg.DefaultBranch
	fmt.Printf("\nGenerating repo %s\n", target.URL)

	if err := local.Checkout(defaultBranch); err != nil {
		fmt.Printf("The branch %q does not exist in the source repository. "+
			"Please specify the correct source branch in ghtt.yaml using the default-branch keyword.\n",
			defaultBranch)
		return err
	}
	if err := local.DeleteBranch(target.Name); err != nil {
		return err
	}
	if err := local.CheckoutNew(target.Name); err != nil {
		return err
	}

	ctx := render.Context{
		CloneURL: repo.CloneURL,
		Group:    target.Group,
		Students: target.Students,
		Mentors:  target.Mentors,
		Repo:     target,
	}
	for _, rerr := range render.RenderTree(local.Dir, ctx) {
		fmt.Printf("Warning: %v\n", rerr)
	}

	if err := local.AddAll(); err != nil {
		return err
	}
	if err := local.Commit("fill in templates"); err != nil {
		return err
	}

	fmt.Printf("Pushing source to %s\n", repo.SSHURL)
	if err := local.Push(repo.SSHURL, fmt.Sprintf("%s:%s", target.Name, defaultBranch)); err != nil {
		return err
	}
	if err := local.Checkout(defaultBranch); err != nil {
		return err
	}

	if err := rc.client.EditRepo(rc.org, target.Name, github.RepoEdit{
		DefaultBranch: &defaultBranch,
	}); err != nil {
		return err
	}

	fmt.Printf("Protecting the %s branch so students can't rewrite history\n", defaultBranch)
	if err := rc.client.ProtectBranch(rc.org, target.Name, defaultBranch, rc.cfg.Repos.RequirePullRequests); err != nil {
		return err
	}

	fmt.Println("Adding comment to repo")
	comment := target.Comment
	return rc.client.EditRepo(rc.org, target.Name, github.RepoEdit{Description: &comment})
}
