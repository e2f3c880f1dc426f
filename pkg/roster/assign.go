package roster

import (
	"fmt"
	"strings"
)

// RepoTarget is one destination repository together with the people
// associated with it. Targets are built incrementally while the roster
// is walked and must not be mutated once assignment completes.
type RepoTarget struct {
	Name         string
	Group        string
	Students     []Person
	Mentors      []Person
	Comment      string
	Organization string
	URL          string
}

// Assignment is the ordered set of repo targets produced by an
// Assigner. Iteration order is the first-seen order of the underlying
// roster, which also governs downstream processing order.
type Assignment struct {
	targets map[string]*RepoTarget
	order   []string
	// Ungrouped lists students excluded because the roster defines a
	// grouping field but the student has no group.
	Ungrouped []Person
}

// Targets returns the repo targets in first-seen roster order.
func (a *Assignment) Targets() []*RepoTarget {
	out := make([]*RepoTarget, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.targets[name])
	}
	return out
}

// Get returns the target with the given repository name, or nil.
func (a *Assignment) Get(name string) *RepoTarget {
	return a.targets[name]
}

// Len returns the number of repo targets.
func (a *Assignment) Len() int {
	return len(a.order)
}

// Assigner maps a roster onto repo targets.
type Assigner struct {
	// NameTemplate names each repository. It understands the
	// {organization}, {student_username} and {student_group}
	// placeholders.
	NameTemplate string
	Organization string
	// BaseURL is the browse URL of the organization, used to derive
	// each target's URL.
	BaseURL string
	// Grouped selects group-based assignment. When false every student
	// maps 1:1 to a repository of their own.
	Grouped bool
}

// Assign walks the students in order and builds one target per student
// or per canonical group. Mentors are attached to every target whose
// group key is in their groups set.
func (s *Assigner) Assign(students, mentors []Person) *Assignment {
	asn := &Assignment{targets: make(map[string]*RepoTarget)}

	for _, student := range students {
		var name string
		if s.Grouped {
			if student.Group == "" {
				asn.Ungrouped = append(asn.Ungrouped, student)
				continue
			}
			name = s.repoName(student.Username, student.Group)
		} else {
			name = s.repoName(student.Username, "")
		}

		target, ok := asn.targets[name]
		if !ok {
			target = &RepoTarget{
				Name:         name,
				Group:        student.Group,
				Organization: s.Organization,
				URL:          strings.TrimRight(s.BaseURL, "/") + "/" + name,
			}
			asn.targets[name] = target
			asn.order = append(asn.order, name)
		}

		target.Students = append(target.Students, student)
		comments := make([]string, 0, len(target.Students))
		for _, st := range target.Students {
			comments = append(comments, st.Comment)
		}
		target.Comment = strings.Join(comments, ", ")
	}

	for _, name := range asn.order {
		target := asn.targets[name]
		for _, mentor := range mentors {
			if target.Group != "" && mentor.MemberOf(target.Group) {
				target.Mentors = append(target.Mentors, mentor)
			}
		}
	}

	return asn
}

func (s *Assigner) repoName(username, group string) string {
	name := strings.ReplaceAll(s.NameTemplate, "{organization}", s.Organization)
	name = strings.ReplaceAll(name, "{student_username}", username)
	if group != "" {
		name = strings.ReplaceAll(name, "{student_group}", group)
	}
	return name
}

// SizeIssue describes a target whose student or mentor count differs
// from what the course expects. Unexpected sizes are a soft warning,
// not an error: rosters are frequently imperfect, so the operator gets
// to approve or skip the target instead of failing the run.
type SizeIssue struct {
	Target           *RepoTarget
	ExpectedStudents int
	ExpectedMentors  int
}

func (i SizeIssue) String() string {
	if i.ExpectedMentors > 0 || len(i.Target.Mentors) > 0 {
		return fmt.Sprintf("group %s has %d students and %d mentors (expected %d/%d)",
			i.Target.Group, len(i.Target.Students), len(i.Target.Mentors), i.ExpectedStudents, i.ExpectedMentors)
	}
	return fmt.Sprintf("group %s has %d students (expected %d)",
		i.Target.Group, len(i.Target.Students), i.ExpectedStudents)
}

// CheckSizes returns a SizeIssue for every target whose counts differ
// from the expectations. A zero expectation disables that check.
func CheckSizes(asn *Assignment, expectedStudents, expectedMentors int) []SizeIssue {
	var issues []SizeIssue
	for _, target := range asn.Targets() {
		if (expectedStudents > 0 && len(target.Students) != expectedStudents) ||
			(expectedMentors > 0 && len(target.Mentors) != expectedMentors) {
			issues = append(issues, SizeIssue{
				Target:           target,
				ExpectedStudents: expectedStudents,
				ExpectedMentors:  expectedMentors,
			})
		}
	}
	return issues
}
