package github

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ItemType discriminates desired-state records.
type ItemType string

const (
	ItemTypeMilestone ItemType = "milestone"
	ItemTypeIssue     ItemType = "issue"
)

// DesiredItem is one declarative issue or milestone, parsed from a
// rendered YAML document. DueOn stays a raw string here; the
// reconciler resolves it to an instant because naive timestamps need
// the engine's location.
type DesiredItem struct {
	Type        ItemType `yaml:"type"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	DueOn       string   `yaml:"due date"`
	Body        string   `yaml:"body"`
	Milestone   string   `yaml:"milestone"`
	Labels      []string `yaml:"labels"`
	Assignees   []string `yaml:"assignees"`
}

// ParseDesiredItems parses a desired-state document: a YAML sequence
// of records discriminated by their type field.
func ParseDesiredItems(data []byte) ([]DesiredItem, error) {
	var items []DesiredItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse desired state: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("desired state is empty")
	}

	for i, item := range items {
		switch item.Type {
		case ItemTypeMilestone, ItemTypeIssue:
		default:
			return nil, fmt.Errorf("desired item %d: type must be %q or %q, got %q",
				i+1, ItemTypeMilestone, ItemTypeIssue, item.Type)
		}
		if item.Title == "" {
			return nil, fmt.Errorf("desired item %d: title is required", i+1)
		}
	}

	return items, nil
}

// Milestones returns the milestone records of a desired set, in order.
func Milestones(items []DesiredItem) []DesiredItem {
	var out []DesiredItem
	for _, item := range items {
		if item.Type == ItemTypeMilestone {
			out = append(out, item)
		}
	}
	return out
}

// Issues returns the issue records of a desired set, in order.
func Issues(items []DesiredItem) []DesiredItem {
	var out []DesiredItem
	for _, item := range items {
		if item.Type == ItemTypeIssue {
			out = append(out, item)
		}
	}
	return out
}
