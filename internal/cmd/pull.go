package cmd

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
	"github.com/idlab-discover/ghtt/pkg/gitvcs"
	"github.com/idlab-discover/ghtt/pkg/prompt"
)

var (
	pullSource   string
	pullStudents string
	pullGroups   string
	pullYes      bool
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch student work and show the latest commit of each repository",
	Long: `Fetches each student repository's HEAD into a local branch named after
the repository and prints a summary of the latest commit of each student,
sorted by commit time.`,
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVar(&pullSource, "source", "", "Path to the repo with start code (defaults to source in ghtt.yaml)")
	pullCmd.Flags().StringVar(&pullStudents, "students", "", "Comma-separated list of usernames. Defaults to all students")
	pullCmd.Flags().StringVar(&pullGroups, "groups", "", "Comma-separated list of group names. Defaults to all groups")
	pullCmd.Flags().BoolVar(&pullYes, "yes", false, "Process all students/groups without confirmation")
}

// pullRow is one line of the end-of-run summary.
type pullRow struct {
	name        string
	description string
	time        time.Time
	committer   string
	summary     string
}

func runPull(_ *cobra.Command, _ []string) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	source := pullSource
	if source == "" {
		source = rc.cfg.Source
	}

	fmt.Println("# Showing the latest commit..")
	fmt.Printf("# Path: %q\n", source)

	asn, err := rc.loadTargets(splitList(pullStudents), splitList(pullGroups))
	if err != nil {
		return err
	}

	asker := prompt.NewAsker(pullYes, "pull")
	local := gitvcs.New(source)

	// The default branch must be checked out because we can't fetch
	// into the branch that is checked out.
	if err := local.Checkout(rc.cfg.DefaultBranch); err != nil {
		return err
	}

	var summary []pullRow
	// The summary covers everything processed so far even when the run
	// is aborted halfway.
	defer printPullSummary(&summary)

	for _, target := range asn.Targets() {
		repo, err := rc.client.GetRepo(rc.org, target.Name)
		if err != nil {
			if github.IsNotFound(err) {
				summary = append(summary, pullRow{
					name:        target.Name,
					description: target.Comment,
					time:        time.Now(),
					summary:     "pull failed: repository not found",
				})
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

		row := pullRow{name: repo.Name, description: repo.Description}
		if err := local.Fetch(repo.SSHURL, "HEAD:"+repo.Name); err != nil {
			row.time = time.Now()
			row.summary = "pull failed; see output above"
			summary = append(summary, row)
			continue
		}

		commit, err := local.LastCommit(repo.Name)
		if err != nil {
			row.time = time.Now()
			row.summary = "pull failed; see output above"
			summary = append(summary, row)
			continue
		}

		row.time = commit.Time
		row.committer = commit.Author
		row.summary = commit.Subject
		summary = append(summary, row)
	}

	return nil
}

func printPullSummary(rows *[]pullRow) {
	summary := *rows
	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].time.Before(summary[j].time)
	})

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Repository", "Description", "Last commit time", "Committer", "Commit summary"})
	for _, row := range summary {
		t.AppendRow(table.Row{
			row.name,
			row.description,
			row.time.Format(time.RFC3339),
			row.committer,
			row.summary,
		})
	}
	t.Render()
}
