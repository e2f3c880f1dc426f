package github

import (
	"fmt"
	"time"
)

// ActionType tags one planned reconciliation action.
type ActionType string

const (
	ActionCreateMilestone ActionType = "create-milestone"
	ActionUpdateMilestone ActionType = "update-milestone"
	ActionCreateIssue     ActionType = "create-issue"
	ActionUpdateIssue     ActionType = "update-issue"
	// ActionSkipUnchanged marks a desired item whose remote counterpart
	// already matches field for field.
	ActionSkipUnchanged ActionType = "skip-unchanged"
	// ActionSkipAmbiguous marks a desired item with more than one
	// remote counterpart sharing its title. The engine never guesses
	// which duplicate to update.
	ActionSkipAmbiguous ActionType = "skip-ambiguous"
	// ActionInvalid marks a desired item that failed validation, e.g. a
	// milestone with an unparseable due date. Fatal for the item only.
	ActionInvalid ActionType = "invalid"
)

// Action is one planned operation against a repository. Number holds
// the remote item number for updates. DueOn is the resolved due-date
// instant for milestone actions.
type Action struct {
	Type   ActionType
	Item   DesiredItem
	Number int
	DueOn  time.Time
	Reason string
}

// Mutates reports whether applying the action would call the API.
func (a Action) Mutates() bool {
	switch a.Type {
	case ActionCreateMilestone, ActionUpdateMilestone, ActionCreateIssue, ActionUpdateIssue:
		return true
	}
	return false
}

// Reconciler converges a repository's issues and milestones onto a
// desired set. Titles are the natural key on both sides; there is no
// other stable identity between the desired and remote representations.
type Reconciler struct {
	client SourceControlClient
	owner  string
	// loc interprets naive due dates. Defaults to the local zone.
	loc *time.Location
}

// NewReconciler returns a reconciler for repositories under owner.
func NewReconciler(client SourceControlClient, owner string) *Reconciler {
	return &Reconciler{client: client, owner: owner, loc: time.Local}
}

// PlanMilestones compares desired milestones against the remote
// listing and returns one action per desired item.
func (r *Reconciler) PlanMilestones(desired []DesiredItem, remote []Milestone) []Action {
	var actions []Action
	for _, d := range desired {
		actions = append(actions, r.planMilestone(d, remote))
	}
	return actions
}

func (r *Reconciler) planMilestone(d DesiredItem, remote []Milestone) Action {
	dueOn, err := r.resolveDueOn(d)
	if err != nil {
		return Action{Type: ActionInvalid, Item: d, Reason: err.Error()}
	}

	var matches []Milestone
	for _, m := range remote {
		if m.Title == d.Title {
			matches = append(matches, m)
		}
	}

	switch len(matches) {
	case 0:
		return Action{Type: ActionCreateMilestone, Item: d, DueOn: dueOn}
	case 1:
		m := matches[0]
		if m.Description == d.Description && m.DueOn != nil && m.DueOn.Equal(dueOn) {
			return Action{Type: ActionSkipUnchanged, Item: d}
		}
		return Action{Type: ActionUpdateMilestone, Item: d, Number: m.Number, DueOn: dueOn}
	default:
		return Action{
			Type:   ActionSkipAmbiguous,
			Item:   d,
			Reason: fmt.Sprintf("%d milestones share the title %q", len(matches), d.Title),
		}
	}
}

// PlanIssues compares desired issues against the remote listing and
// returns one action per desired item. The milestone reference is
// compared by title; resolving titles to milestone numbers happens at
// apply time, after milestone actions have landed.
func (r *Reconciler) PlanIssues(desired []DesiredItem, remote []Issue) []Action {
	var actions []Action
	for _, d := range desired {
		actions = append(actions, planIssue(d, remote))
	}
	return actions
}

func planIssue(d DesiredItem, remote []Issue) Action {
	var matches []Issue
	for _, is := range remote {
		if is.Title == d.Title {
			matches = append(matches, is)
		}
	}

	switch len(matches) {
	case 0:
		return Action{Type: ActionCreateIssue, Item: d}
	case 1:
		is := matches[0]
		if is.Body == d.Body &&
			is.Milestone == d.Milestone &&
			stringSetsEqual(is.Labels, d.Labels) &&
			stringSetsEqual(is.Assignees, d.Assignees) {
			return Action{Type: ActionSkipUnchanged, Item: d}
		}
		return Action{Type: ActionUpdateIssue, Item: d, Number: is.Number}
	default:
		return Action{
			Type:   ActionSkipAmbiguous,
			Item:   d,
			Reason: fmt.Sprintf("%d issues share the title %q", len(matches), d.Title),
		}
	}
}

// resolveDueOn parses a milestone due date. Timestamps without an
// explicit zone are interpreted in the reconciler's location, never
// silently as UTC.
func (r *Reconciler) resolveDueOn(d DesiredItem) (time.Time, error) {
	if d.DueOn == "" {
		return time.Time{}, NewValidationError(
			fmt.Sprintf("milestone %q", d.Title), "due date is required")
	}
	t, err := parseDueOn(d.DueOn, r.loc)
	if err != nil {
		return time.Time{}, NewValidationError(
			fmt.Sprintf("milestone %q", d.Title),
			fmt.Sprintf("invalid due date %q", d.DueOn))
	}
	return t, nil
}

var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDueOn(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// stringSetsEqual compares two lists as sets: order and duplicate
// entries do not affect the result.
func stringSetsEqual(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}

// Sync reconciles one repository: milestones first, then issues, so
// issue actions can resolve milestone references against the remote
// state the milestone phase produced. Item-level failures are reported
// and skipped; only listing failures abort the repository.
func (r *Reconciler) Sync(repoName string, desired []DesiredItem) error {
	milestones, err := r.client.ListMilestones(r.owner, repoName)
	if err != nil {
		return err
	}

	mutated := false
	for _, action := range r.PlanMilestones(Milestones(desired), milestones) {
		if r.applyMilestoneAction(repoName, action) {
			mutated = true
		}
	}

	if mutated {
		milestones, err = r.client.ListMilestones(r.owner, repoName)
		if err != nil {
			return err
		}
	}
	milestoneNumbers := make(map[string]int, len(milestones))
	for _, m := range milestones {
		milestoneNumbers[m.Title] = m.Number
	}

	issues, err := r.client.ListIssues(r.owner, repoName)
	if err != nil {
		return err
	}
	for _, action := range r.PlanIssues(Issues(desired), issues) {
		r.applyIssueAction(repoName, action, milestoneNumbers)
	}

	return nil
}

// applyMilestoneAction executes one milestone action and reports
// whether it mutated the repository.
func (r *Reconciler) applyMilestoneAction(repoName string, action Action) bool {
	spec := MilestoneSpec{
		Title:       action.Item.Title,
		Description: action.Item.Description,
		DueOn:       action.DueOn,
	}

	switch action.Type {
	case ActionCreateMilestone:
		fmt.Printf("Adding milestone %q\n", spec.Title)
		if err := r.client.CreateMilestone(r.owner, repoName, spec); err != nil {
			if IsBenignAlreadyExists(err) {
				// Raced with a concurrent create of the same title.
				return false
			}
			fmt.Printf("Warning: could not create milestone %q: %v\n", spec.Title, err)
			return false
		}
		return true
	case ActionUpdateMilestone:
		fmt.Printf("Updating milestone %q\n", spec.Title)
		if err := r.client.UpdateMilestone(r.owner, repoName, action.Number, spec); err != nil {
			fmt.Printf("Warning: could not update milestone %q: %v\n", spec.Title, err)
			return false
		}
		return true
	case ActionSkipUnchanged:
		fmt.Printf("Skipping up to date milestone %q\n", spec.Title)
	case ActionSkipAmbiguous:
		fmt.Printf("Skipping milestone %q: %s\n", spec.Title, action.Reason)
	case ActionInvalid:
		fmt.Printf("Skipping invalid milestone %q: %s\n", spec.Title, action.Reason)
	}
	return false
}

func (r *Reconciler) applyIssueAction(repoName string, action Action, milestoneNumbers map[string]int) {
	spec := IssueSpec{
		Title:     action.Item.Title,
		Body:      action.Item.Body,
		Labels:    action.Item.Labels,
		Assignees: action.Item.Assignees,
	}
	// The milestone reference is resolved only when the action mutates:
	// a skipped item must report the skip, not a stale reference.
	if title := action.Item.Milestone; title != "" && action.Mutates() {
		number, ok := milestoneNumbers[title]
		if !ok {
			fmt.Printf("Warning: issue %q references unknown milestone %q, skipping\n",
				spec.Title, title)
			return
		}
		spec.Milestone = number
	}

	switch action.Type {
	case ActionCreateIssue:
		fmt.Printf("Adding issue %q\n", spec.Title)
		if err := r.client.CreateIssue(r.owner, repoName, spec); err != nil {
			fmt.Printf("Warning: could not create issue %q. Do the assignees have access to the repo? %v\n",
				spec.Title, err)
		}
	case ActionUpdateIssue:
		fmt.Printf("Updating issue %q\n", spec.Title)
		if err := r.client.UpdateIssue(r.owner, repoName, action.Number, spec); err != nil {
			fmt.Printf("Warning: could not update issue %q: %v\n", spec.Title, err)
		}
	case ActionSkipUnchanged:
		fmt.Printf("Skipping up to date issue %q\n", spec.Title)
	case ActionSkipAmbiguous:
		fmt.Printf("Skipping issue %q: %s\n", spec.Title, action.Reason)
	}
}
