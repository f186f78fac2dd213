package group

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Group is a single interest group of the catalog.
type Group struct {
	id          string
	name        string
	description string
	tags        []string
	cadence     string
	haystack    string
}

// New validates and creates a Group. Empty cadence means the group has no schedule.
func New(id, name, description string, tags []string, cadence string) (Group, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Group{}, fmt.Errorf("group id is required")
	}
	if strings.TrimSpace(name) == "" {
		return Group{}, fmt.Errorf("group %q: name is required", id)
	}

	cp := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		cp = append(cp, t)
	}

	return Group{
		id:          id,
		name:        name,
		description: description,
		tags:        cp,
		cadence:     strings.TrimSpace(cadence),
		haystack:    strings.ToLower(name + " " + description + " " + strings.Join(cp, " ")),
	}, nil
}

// ID returns the unique group identifier.
func (g Group) ID() string { return g.id }

// Name returns the display name.
func (g Group) Name() string { return g.name }

// Description returns the free-text description.
func (g Group) Description() string { return g.description }

// Tags returns a copy of the ordered tags.
func (g Group) Tags() []string {
	out := make([]string, len(g.tags))
	copy(out, g.tags)
	return out
}

// Cadence returns the schedule description, empty when absent.
func (g Group) Cadence() string { return g.cadence }

// Contains reports whether the lower-cased name, description and tags contain needle.
// needle must already be lower-cased.
func (g Group) Contains(needle string) bool {
	return strings.Contains(g.haystack, needle)
}

// HasAnyTag reports whether one of the group's tags, lower-cased, is in set.
func (g Group) HasAnyTag(set map[string]struct{}) bool {
	for _, t := range g.tags {
		if _, ok := set[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

type groupJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Cadence     string   `json:"cadence,omitempty"`
}

// MarshalJSON encodes the group with a fixed field order.
func (g Group) MarshalJSON() ([]byte, error) {
	tags := g.tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(groupJSON{
		ID:          g.id,
		Name:        g.name,
		Description: g.description,
		Tags:        tags,
		Cadence:     g.cadence,
	})
}
