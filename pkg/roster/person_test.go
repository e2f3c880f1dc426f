package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalGroup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "team-a", "team-a"},
		{"uppercase", "TEAM A", "team-a"},
		{"punctuation collapses", "Team  A!!", "team-a"},
		{"leading and trailing junk", "--Team A--", "team-a"},
		{"digits survive", "Group 12", "group-12"},
		{"mixed separators", "cs101_team.1", "cs101-team-1"},
		{"empty", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalGroup(tt.input))
		})
	}
}

func TestCanonicalGroupIsIdempotent(t *testing.T) {
	for _, input := range []string{"Team  A!!", "TEAM A", "group 12", "cs101_team.1"} {
		once := CanonicalGroup(input)
		assert.Equal(t, once, CanonicalGroup(once), "canonicalizing %q twice", input)
	}
}

func TestMemberOf(t *testing.T) {
	mentor := Person{Username: "carol", Groups: []string{"team-a", "team-b"}}

	assert.True(t, mentor.MemberOf("team-a"))
	assert.True(t, mentor.MemberOf("team-b"))
	assert.False(t, mentor.MemberOf("team-c"))
	assert.False(t, Person{}.MemberOf("team-a"))
}
