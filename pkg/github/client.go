package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client implements SourceControlClient against the GitHub REST API.
type Client struct {
	client *github.Client
	ctx    context.Context
}

// NewClient returns a client for github.com authenticated with token.
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		ctx:    ctx,
	}
}

// NewEnterpriseClient returns a client for a GitHub Enterprise host.
// The REST endpoint lives under /api/v3 on such instances.
func NewEnterpriseClient(host, token string) (*Client, error) {
	c := NewClient(token)
	base := fmt.Sprintf("https://%s/api/v3/", host)
	enterprise, err := c.client.WithEnterpriseURLs(base, base)
	if err != nil {
		return nil, fmt.Errorf("failed to configure enterprise client for %s: %w", host, err)
	}
	c.client = enterprise
	return c, nil
}

// ListRepos lists all repositories in the organization.
func (c *Client) ListRepos(org string) ([]Repo, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []Repo
	for {
		repos, resp, err := c.client.Repositories.ListByOrg(c.ctx, org, opts)
		if err != nil {
			return nil, WrapAPIError(err, fmt.Sprintf("repositories of %s", org))
		}
		for _, repo := range repos {
			all = append(all, *convertRepo(repo))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// GetRepo retrieves a repository by organization and name.
func (c *Client) GetRepo(org, name string) (*Repo, error) {
	repo, _, err := c.client.Repositories.Get(c.ctx, org, name)
	if err != nil {
		return nil, WrapAPIError(err, fmt.Sprintf("repository %s/%s", org, name))
	}
	return convertRepo(repo), nil
}

// CreateRepo creates a repository in the organization.
func (c *Client) CreateRepo(org, name string, opts CreateRepoOptions) (*Repo, error) {
	repo := &github.Repository{
		Name:        github.String(name),
		Description: github.String(opts.Description),
		Private:     github.Bool(opts.Private),
		HasIssues:   github.Bool(opts.HasIssues),
		HasWiki:     github.Bool(opts.HasWiki),
		HasProjects: github.Bool(false),
	}

	created, _, err := c.client.Repositories.Create(c.ctx, org, repo)
	if err != nil {
		return nil, WrapAPIError(err, fmt.Sprintf("repository %s/%s", org, name))
	}
	return convertRepo(created), nil
}

// EditRepo updates repository metadata.
func (c *Client) EditRepo(org, name string, edit RepoEdit) error {
	repo := &github.Repository{
		Description:   edit.Description,
		DefaultBranch: edit.DefaultBranch,
	}
	_, _, err := c.client.Repositories.Edit(c.ctx, org, name, repo)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("repository %s/%s", org, name))
	}
	return nil
}

// DeleteRepo deletes a repository.
func (c *Client) DeleteRepo(org, name string) error {
	_, err := c.client.Repositories.Delete(c.ctx, org, name)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("repository %s/%s", org, name))
	}
	return nil
}

// ProtectBranch enables branch protection so history can not be
// rewritten. With requirePullRequests changes must come in through a
// pull request, though no approving review is required.
func (c *Client) ProtectBranch(org, name, branch string, requirePullRequests bool) error {
	protection := &github.ProtectionRequest{
		AllowForcePushes: github.Bool(false),
	}
	if requirePullRequests {
		protection.RequiredPullRequestReviews = &github.PullRequestReviewsEnforcementRequest{
			RequiredApprovingReviewCount: 0,
		}
	}

	_, _, err := c.client.Repositories.UpdateBranchProtection(c.ctx, org, name, branch, protection)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("branch protection %s/%s:%s", org, name, branch))
	}
	return nil
}

// GetBranchHead returns the head commit of a branch.
func (c *Client) GetBranchHead(org, name, branch string) (*CommitInfo, error) {
	b, _, err := c.client.Repositories.GetBranch(c.ctx, org, name, branch, 3)
	if err != nil {
		return nil, WrapAPIError(err, fmt.Sprintf("branch %s/%s:%s", org, name, branch))
	}

	info := &CommitInfo{}
	if commit := b.GetCommit().GetCommit(); commit != nil {
		info.Message = commit.GetMessage()
		if author := commit.GetAuthor(); author != nil {
			info.AuthorName = author.GetName()
			info.AuthorEmail = author.GetEmail()
		}
	}
	return info, nil
}

// AddCollaborator invites a user to the repository with the given
// permission ("pull" or "push"). Existing access is overwritten.
func (c *Client) AddCollaborator(org, name, username, permission string) error {
	opts := &github.RepositoryAddCollaboratorOptions{Permission: permission}
	_, _, err := c.client.Repositories.AddCollaborator(c.ctx, org, name, username, opts)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("collaborator %s for %s/%s", username, org, name))
	}
	return nil
}

// RemoveCollaborator removes a user from the repository.
func (c *Client) RemoveCollaborator(org, name, username string) error {
	_, err := c.client.Repositories.RemoveCollaborator(c.ctx, org, name, username)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("collaborator %s for %s/%s", username, org, name))
	}
	return nil
}

// ListPendingInvitations lists open collaborator invitations.
func (c *Client) ListPendingInvitations(org, name string) ([]Invitation, error) {
	opts := &github.ListOptions{PerPage: 100}

	var all []Invitation
	for {
		invitations, resp, err := c.client.Repositories.ListInvitations(c.ctx, org, name, opts)
		if err != nil {
			return nil, WrapAPIError(err, fmt.Sprintf("invitations for %s/%s", org, name))
		}
		for _, inv := range invitations {
			all = append(all, Invitation{
				ID:      inv.GetID(),
				Invitee: inv.GetInvitee().GetLogin(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// DeleteInvitation cancels a pending collaborator invitation.
func (c *Client) DeleteInvitation(org, name string, id int64) error {
	_, err := c.client.Repositories.DeleteInvitation(c.ctx, org, name, id)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("invitation %d for %s/%s", id, org, name))
	}
	return nil
}

// CreatePullRequest opens a pull request merging head into base.
func (c *Client) CreatePullRequest(org, name, title, body, base, head string) (*PullRequest, error) {
	pr, _, err := c.client.PullRequests.Create(c.ctx, org, name, &github.NewPullRequest{
		Title: github.String(title),
		Body:  github.String(body),
		Base:  github.String(base),
		Head:  github.String(head),
	})
	if err != nil {
		return nil, WrapAPIError(err, fmt.Sprintf("pull request for %s/%s", org, name))
	}
	return &PullRequest{Number: pr.GetNumber(), HTMLURL: pr.GetHTMLURL()}, nil
}

// ListMilestones lists the open milestones of a repository. Due dates
// are normalized to UTC.
func (c *Client) ListMilestones(org, name string) ([]Milestone, error) {
	opts := &github.MilestoneListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []Milestone
	for {
		milestones, resp, err := c.client.Issues.ListMilestones(c.ctx, org, name, opts)
		if err != nil {
			return nil, WrapAPIError(err, fmt.Sprintf("milestones for %s/%s", org, name))
		}
		for _, m := range milestones {
			milestone := Milestone{
				Number:      m.GetNumber(),
				Title:       m.GetTitle(),
				Description: m.GetDescription(),
			}
			if m.DueOn != nil {
				due := m.DueOn.Time.UTC()
				milestone.DueOn = &due
			}
			all = append(all, milestone)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateMilestone creates a milestone.
func (c *Client) CreateMilestone(org, name string, spec MilestoneSpec) error {
	_, _, err := c.client.Issues.CreateMilestone(c.ctx, org, name, &github.Milestone{
		Title:       github.String(spec.Title),
		Description: github.String(spec.Description),
		DueOn:       &github.Timestamp{Time: spec.DueOn},
	})
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("milestone %q in %s/%s", spec.Title, org, name))
	}
	return nil
}

// UpdateMilestone overwrites a milestone with the desired field set.
func (c *Client) UpdateMilestone(org, name string, number int, spec MilestoneSpec) error {
	_, _, err := c.client.Issues.EditMilestone(c.ctx, org, name, number, &github.Milestone{
		Title:       github.String(spec.Title),
		Description: github.String(spec.Description),
		DueOn:       &github.Timestamp{Time: spec.DueOn},
	})
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("milestone %q in %s/%s", spec.Title, org, name))
	}
	return nil
}

// ListIssues lists the open issues of a repository. Pull requests are
// filtered out.
func (c *Client) ListIssues(org, name string) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var all []Issue
	for {
		issues, resp, err := c.client.Issues.ListByRepo(c.ctx, org, name, opts)
		if err != nil {
			return nil, WrapAPIError(err, fmt.Sprintf("issues for %s/%s", org, name))
		}
		for _, is := range issues {
			if is.IsPullRequest() {
				continue
			}
			issue := Issue{
				Number:    is.GetNumber(),
				Title:     is.GetTitle(),
				Body:      is.GetBody(),
				Milestone: is.GetMilestone().GetTitle(),
			}
			for _, label := range is.Labels {
				issue.Labels = append(issue.Labels, label.GetName())
			}
			for _, assignee := range is.Assignees {
				issue.Assignees = append(issue.Assignees, assignee.GetLogin())
			}
			all = append(all, issue)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateIssue creates an issue.
func (c *Client) CreateIssue(org, name string, spec IssueSpec) error {
	req := &github.IssueRequest{
		Title:     github.String(spec.Title),
		Body:      github.String(spec.Body),
		Labels:    &spec.Labels,
		Assignees: &spec.Assignees,
	}
	if spec.Milestone != 0 {
		req.Milestone = github.Int(spec.Milestone)
	}

	_, _, err := c.client.Issues.Create(c.ctx, org, name, req)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("issue %q in %s/%s", spec.Title, org, name))
	}
	return nil
}

// UpdateIssue overwrites an issue with the desired field set.
func (c *Client) UpdateIssue(org, name string, number int, spec IssueSpec) error {
	req := &github.IssueRequest{
		Title:     github.String(spec.Title),
		Body:      github.String(spec.Body),
		Labels:    &spec.Labels,
		Assignees: &spec.Assignees,
	}
	if spec.Milestone != 0 {
		req.Milestone = github.Int(spec.Milestone)
	}

	_, _, err := c.client.Issues.Edit(c.ctx, org, name, number, req)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("issue %q in %s/%s", spec.Title, org, name))
	}
	return nil
}

// SearchCode returns the distinct repositories whose code matches the
// query.
func (c *Client) SearchCode(query string) ([]Repo, error) {
	opts := &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	seen := make(map[string]bool)
	var all []Repo
	for {
		result, resp, err := c.client.Search.Code(c.ctx, query, opts)
		if err != nil {
			return nil, WrapAPIError(err, fmt.Sprintf("code search %q", query))
		}
		for _, match := range result.CodeResults {
			repo := match.GetRepository()
			if repo == nil || seen[repo.GetFullName()] {
				continue
			}
			seen[repo.GetFullName()] = true
			all = append(all, *convertRepo(repo))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func convertRepo(repo *github.Repository) *Repo {
	return &Repo{
		ID:            repo.GetID(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Private:       repo.GetPrivate(),
		DefaultBranch: repo.GetDefaultBranch(),
		SSHURL:        repo.GetSSHURL(),
		CloneURL:      repo.GetCloneURL(),
		HTMLURL:       repo.GetHTMLURL(),
	}
}

var _ SourceControlClient = (*Client)(nil)
