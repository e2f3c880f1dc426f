package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/config"
	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/prompt"
	"github.com/idlab-discover/ghtt/pkg/roster"
)

var assignmentCmd = &cobra.Command{
	Use:   "assignment",
	Short: "Manage per-student and per-group assignment repositories",
	Long: `Commands for managing assignment repositories.

Each student or group gets one repository, named from the configured
template. Subcommands create those repositories, grant or revoke
access, open update pull requests, populate issues and milestones, and
report on student progress.`,
}

func init() {
	assignmentCmd.AddCommand(createReposCmd)
	assignmentCmd.AddCommand(deleteReposCmd)
	assignmentCmd.AddCommand(grantCmd)
	assignmentCmd.AddCommand(removeGrantCmd)
	assignmentCmd.AddCommand(createPRCmd)
	assignmentCmd.AddCommand(createIssuesCmd)
	assignmentCmd.AddCommand(pullCmd)
}

// runContext bundles what every assignment subcommand needs: the
// validated configuration and an authenticated API client.
type runContext struct {
	cfg    *config.Config
	client github.SourceControlClient
	org    string
}

func newRunContext() (*runContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	fmt.Printf("# URL: %q\n", cfg.URL)

	token, err := github.ResolveToken(rootToken, cfg.Host())
	if err != nil {
		return nil, err
	}
	client, err := github.NewClientForHost(cfg.Host(), token)
	if err != nil {
		return nil, err
	}

	return &runContext{cfg: cfg, client: client, org: cfg.Organization()}, nil
}

// loadTargets loads the rosters, assigns students to repo targets and
// reports students excluded for having no group.
func (rc *runContext) loadTargets(usernames, groups []string) (*roster.Assignment, error) {
	students, err := roster.Load(rc.cfg.Students, usernames, groups)
	if err != nil {
		return nil, err
	}
	roster.SortStudents(students)

	mentors, err := roster.Load(rc.cfg.Mentors, nil, nil)
	if err != nil {
		return nil, err
	}

	assigner := roster.Assigner{
		NameTemplate: rc.cfg.Repos.NameTemplate,
		Organization: rc.org,
		BaseURL:      rc.cfg.URL,
		Grouped:      rc.cfg.Grouped(),
	}
	asn := assigner.Assign(students, mentors)

	for _, p := range asn.Ungrouped {
		fmt.Printf("%s is not a member of any group; skipping.\n", p.Username)
	}

	return asn, nil
}

// checkGroupSizes surfaces targets with unexpected student or mentor
// counts to the operator. Unexpected sizes are a soft warning: the
// operator approves or skips each one. This check always prompts, even
// in --yes runs.
func (rc *runContext) checkGroupSizes(asn *roster.Assignment) ([]*roster.RepoTarget, error) {
	issues := roster.CheckSizes(asn, *rc.cfg.ExpectedGroupSize, rc.cfg.ExpectedMentorCount)
	flagged := make(map[string]roster.SizeIssue, len(issues))
	for _, issue := range issues {
		flagged[issue.Target.Name] = issue
	}

	asker := prompt.NewAsker(false, "proceed with invalid group")

	var ok []*roster.RepoTarget
	for _, target := range asn.Targets() {
		issue, bad := flagged[target.Name]
		if !bad {
			ok = append(ok, target)
			continue
		}

		fmt.Println(issue)
		for _, s := range target.Students {
			fmt.Printf("   - student %s (%s)\n", s.Username, s.Comment)
		}
		for _, m := range target.Mentors {
			fmt.Printf("   - mentor %s (%s)\n", m.Username, m.Comment)
		}

		proceed, err := asker.ShouldProceed(target.Group)
		if err != nil {
			return nil, err
		}
		if proceed {
			ok = append(ok, target)
		}
	}

	return ok, nil
}

// splitList turns a comma-separated flag value into trimmed entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
