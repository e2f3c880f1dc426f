package github

// SourceControlClient is the API surface ghtt needs from a GitHub-like
// source control service. All calls are synchronous; every call is
// attempted at most once.
type SourceControlClient interface {
	// Repository operations
	ListRepos(org string) ([]Repo, error)
	GetRepo(org, name string) (*Repo, error)
	CreateRepo(org, name string, opts CreateRepoOptions) (*Repo, error)
	EditRepo(org, name string, edit RepoEdit) error
	DeleteRepo(org, name string) error
	ProtectBranch(org, name, branch string, requirePullRequests bool) error
	GetBranchHead(org, name, branch string) (*CommitInfo, error)

	// Collaborator operations
	AddCollaborator(org, name, username, permission string) error
	RemoveCollaborator(org, name, username string) error
	ListPendingInvitations(org, name string) ([]Invitation, error)
	DeleteInvitation(org, name string, id int64) error

	// Pull request operations
	CreatePullRequest(org, name, title, body, base, head string) (*PullRequest, error)

	// Milestone operations
	ListMilestones(org, name string) ([]Milestone, error)
	CreateMilestone(org, name string, spec MilestoneSpec) error
	UpdateMilestone(org, name string, number int, spec MilestoneSpec) error

	// Issue operations
	ListIssues(org, name string) ([]Issue, error)
	CreateIssue(org, name string, spec IssueSpec) error
	UpdateIssue(org, name string, number int, spec IssueSpec) error

	// Search operations
	SearchCode(query string) ([]Repo, error)
}
