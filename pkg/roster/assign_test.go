package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupedAssigner() *Assigner {
	return &Assigner{
		NameTemplate: "{organization}-{student_group}",
		Organization: "cs101",
		BaseURL:      "https://github.example.com/cs101",
		Grouped:      true,
	}
}

func TestAssign_Grouped(t *testing.T) {
	students := []Person{
		{Username: "alice", Comment: "Alice Adams", Group: "team-1"},
		{Username: "bob", Comment: "Bob Brown", Group: "team-1"},
		{Username: "carol", Comment: "Carol Clark", Group: "team-2"},
	}

	asn := groupedAssigner().Assign(students, nil)

	require.Equal(t, 2, asn.Len())

	team1 := asn.Get("cs101-team-1")
	require.NotNil(t, team1)
	assert.Equal(t, "team-1", team1.Group)
	assert.Equal(t, "https://github.example.com/cs101/cs101-team-1", team1.URL)
	require.Len(t, team1.Students, 2)
	assert.Equal(t, "alice", team1.Students[0].Username)
	assert.Equal(t, "bob", team1.Students[1].Username)
	assert.Equal(t, "Alice Adams, Bob Brown", team1.Comment)

	team2 := asn.Get("cs101-team-2")
	require.NotNil(t, team2)
	assert.Equal(t, "Carol Clark", team2.Comment)
}

func TestAssign_TargetsKeepRosterOrder(t *testing.T) {
	students := []Person{
		{Username: "carol", Group: "team-2"},
		{Username: "alice", Group: "team-1"},
		{Username: "bob", Group: "team-1"},
	}

	asn := groupedAssigner().Assign(students, nil)

	targets := asn.Targets()
	require.Len(t, targets, 2)
	assert.Equal(t, "cs101-team-2", targets[0].Name)
	assert.Equal(t, "cs101-team-1", targets[1].Name)
}

func TestAssign_UngroupedStudentsAreSetAside(t *testing.T) {
	students := []Person{
		{Username: "alice", Group: "team-1"},
		{Username: "drifter"},
	}

	asn := groupedAssigner().Assign(students, nil)

	assert.Equal(t, 1, asn.Len())
	require.Len(t, asn.Ungrouped, 1)
	assert.Equal(t, "drifter", asn.Ungrouped[0].Username)
}

func TestAssign_PerStudent(t *testing.T) {
	assigner := &Assigner{
		NameTemplate: "{organization}-{student_username}",
		Organization: "cs101",
		BaseURL:      "https://github.example.com/cs101",
	}
	students := []Person{
		{Username: "alice"},
		{Username: "bob"},
	}

	asn := assigner.Assign(students, nil)

	require.Equal(t, 2, asn.Len())
	assert.NotNil(t, asn.Get("cs101-alice"))
	assert.NotNil(t, asn.Get("cs101-bob"))
	require.Len(t, asn.Get("cs101-alice").Students, 1)
}

func TestAssign_MentorsFollowTheirGroups(t *testing.T) {
	students := []Person{
		{Username: "alice", Group: "team-1"},
		{Username: "carol", Group: "team-2"},
	}
	mentors := []Person{
		{Username: "mallory", Groups: []string{"team-1", "team-2"}},
		{Username: "trent", Groups: []string{"team-2"}},
	}

	asn := groupedAssigner().Assign(students, mentors)

	team1 := asn.Get("cs101-team-1")
	require.Len(t, team1.Mentors, 1)
	assert.Equal(t, "mallory", team1.Mentors[0].Username)

	team2 := asn.Get("cs101-team-2")
	require.Len(t, team2.Mentors, 2)
	assert.Equal(t, "mallory", team2.Mentors[0].Username)
	assert.Equal(t, "trent", team2.Mentors[1].Username)
}

func TestAssign_IsDeterministic(t *testing.T) {
	students := []Person{
		{Username: "alice", Comment: "Alice", Group: "team-1"},
		{Username: "bob", Comment: "Bob", Group: "team-1"},
		{Username: "carol", Comment: "Carol", Group: "team-2"},
	}
	mentors := []Person{
		{Username: "mallory", Groups: []string{"team-1"}},
	}

	first := groupedAssigner().Assign(students, mentors)
	second := groupedAssigner().Assign(students, mentors)

	require.Equal(t, first.Len(), second.Len())
	for i, target := range first.Targets() {
		other := second.Targets()[i]
		assert.Equal(t, target.Name, other.Name)
		assert.Equal(t, target.Comment, other.Comment)
		assert.Equal(t, len(target.Students), len(other.Students))
		assert.Equal(t, len(target.Mentors), len(other.Mentors))
	}
}

func TestCheckSizes(t *testing.T) {
	students := []Person{
		{Username: "alice", Group: "team-1"},
		{Username: "bob", Group: "team-1"},
		{Username: "carol", Group: "team-2"},
	}
	mentors := []Person{
		{Username: "mallory", Groups: []string{"team-1"}},
	}

	asn := groupedAssigner().Assign(students, mentors)

	issues := CheckSizes(asn, 2, 1)
	require.Len(t, issues, 1)
	assert.Equal(t, "cs101-team-2", issues[0].Target.Name)
	assert.Contains(t, issues[0].String(), "team-2")

	// A zero expectation disables that check.
	assert.Empty(t, CheckSizes(asn, 0, 0))
}
