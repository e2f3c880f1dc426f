package roster

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/idlab-discover/ghtt/pkg/config"
)

// Load reads a roster from its CSV source and returns the matching
// persons in file order. Rows whose username starts with "#" are
// disabled upstream and excluded. When usernames or groups are given,
// only matching persons are returned.
func Load(rc *config.RosterConfig, usernames, groups []string) ([]Person, error) {
	if rc == nil {
		return nil, nil
	}

	canonical := make([]string, 0, len(groups))
	for _, g := range groups {
		canonical = append(canonical, CanonicalGroup(g))
	}

	f, err := os.Open(rc.Source)
	if err != nil {
		return nil, fmt.Errorf("roster source %s not found: %w", rc.Source, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", rc.Source, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	mapping := rc.FieldMapping

	commentTmpl, err := template.New("comment").Option("missingkey=zero").Parse(mapping.Comment)
	if err != nil {
		return nil, fmt.Errorf("invalid comment template %q: %w", mapping.Comment, err)
	}

	var persons []Person
	for _, row := range records[1:] {
		record := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}

		username := record[mapping.Username]
		if username == "" || strings.HasPrefix(username, "#") {
			continue
		}
		if len(usernames) > 0 && !contains(usernames, username) {
			continue
		}

		p := Person{
			Username: username,
			Fullname: record[mapping.Fullname],
			Email:    record[mapping.Email],
			Record:   record,
		}

		if mapping.Comment != "" {
			var sb strings.Builder
			if err := commentTmpl.Execute(&sb, map[string]any{"record": record}); err != nil {
				return nil, fmt.Errorf("failed to render comment for %s: %w", username, err)
			}
			p.Comment = sb.String()
		}

		if mapping.Group != "" {
			p.Group = CanonicalGroup(record[mapping.Group])
			if len(canonical) > 0 && !contains(canonical, p.Group) {
				continue
			}
		}

		if mapping.Groups != "" {
			for _, g := range strings.Split(record[mapping.Groups], ",") {
				g = CanonicalGroup(strings.TrimSpace(g))
				if g != "" {
					p.Groups = append(p.Groups, g)
				}
			}
		}

		persons = append(persons, p)
	}

	return persons, nil
}

// SortStudents orders students by group, then username, using natural
// number ordering so team-2 sorts before team-10. The order is stable
// so repeated loads of the same roster sort identically.
func SortStudents(persons []Person) {
	sort.SliceStable(persons, func(i, j int) bool {
		if persons[i].Group != persons[j].Group {
			return naturalLess(persons[i].Group, persons[j].Group)
		}
		return naturalLess(persons[i].Username, persons[j].Username)
	})
}

// naturalLess compares two strings segment by segment, treating runs
// of digits as numbers.
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			na, resta := takeNumber(a)
			nb, restb := takeNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = resta, restb
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func takeNumber(s string) (int, string) {
	i := 0
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
