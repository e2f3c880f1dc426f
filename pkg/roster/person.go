// Package roster models the people taking part in a course and maps
// them onto their target repositories.
package roster

import (
	"fmt"
	"regexp"
	"strings"
)

// Person is a normalized roster record for a student or mentor.
type Person struct {
	Username string
	Fullname string
	Email    string
	// Comment is the rendered display string for this person, built
	// from the roster's comment template.
	Comment string
	// Group is the canonical group key, empty when the person has none.
	Group string
	// Groups is the set of canonical group keys. Only mentors use it.
	Groups []string
	// Record holds the raw source row.
	Record map[string]string
}

func (p Person) String() string {
	return fmt.Sprintf("Person %q (%q) group: %q groups: %v", p.Username, p.Comment, p.Group, p.Groups)
}

// MemberOf reports whether group is one of the person's groups.
func (p Person) MemberOf(group string) bool {
	for _, g := range p.Groups {
		if g == group {
			return true
		}
	}
	return false
}

var nonAlnum = regexp.MustCompile("[^0-9a-z]+")

// CanonicalGroup normalizes a group key: lowercased, every run of
// non-alphanumeric characters collapsed to a single hyphen, boundary
// hyphens trimmed. "Team  A!!", "team-a" and "TEAM A" all map to
// "team-a".
func CanonicalGroup(group string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(group), "-"), "-")
}
