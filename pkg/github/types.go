package github

import "time"

// Repo represents a repository as seen through the API.
type Repo struct {
	ID            int64
	Name          string
	FullName      string
	Description   string
	Private       bool
	DefaultBranch string
	SSHURL        string
	CloneURL      string
	HTMLURL       string
}

// Milestone is the remote state of one milestone. DueOn is normalized
// to UTC by the client.
type Milestone struct {
	Number      int
	Title       string
	Description string
	DueOn       *time.Time
}

// Issue is the remote state of one issue. Milestone holds the title of
// the referenced milestone, empty when there is none.
type Issue struct {
	Number    int
	Title     string
	Body      string
	Milestone string
	Labels    []string
	Assignees []string
}

// MilestoneSpec carries the full desired field set for a milestone
// create or update. Updates overwrite the remote item, they do not
// merge field by field.
type MilestoneSpec struct {
	Title       string
	Description string
	DueOn       time.Time
}

// IssueSpec carries the full desired field set for an issue create or
// update. Milestone is the remote milestone number, 0 for none.
type IssueSpec struct {
	Title     string
	Body      string
	Milestone int
	Labels    []string
	Assignees []string
}

// CreateRepoOptions holds the settings for a new repository.
type CreateRepoOptions struct {
	Description string
	Private     bool
	HasIssues   bool
	HasWiki     bool
}

// RepoEdit updates repository metadata. Nil fields are left unchanged.
type RepoEdit struct {
	Description   *string
	DefaultBranch *string
}

// Invitation is a pending collaborator invitation.
type Invitation struct {
	ID      int64
	Invitee string
}

// PullRequest is a created pull request.
type PullRequest struct {
	Number  int
	HTMLURL string
}

// CommitInfo describes the head commit of a branch.
type CommitInfo struct {
	AuthorName  string
	AuthorEmail string
	Message     string
}
