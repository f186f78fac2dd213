package category

import (
	"fmt"
	"strings"
)

// Category is a coarse interest area accepted by group search.
type Category string

// Category constants.
const (
	Parents   Category = "parents"
	Fitness   Category = "fitness"
	Social    Category = "social"
	Creative  Category = "creative"
	Career    Category = "career"
	Support   Category = "support"
	Learning  Category = "learning"
	Community Category = "community"
	Pets      Category = "pets"
	// Any disables category filtering.
	Any Category = "any"
)

// All lists every accepted value in schema order, Any last.
func All() []Category {
	return []Category{Parents, Fitness, Social, Creative, Career, Support, Learning, Community, Pets, Any}
}

// Strings returns All as strings.
func Strings() []string {
	all := All()
	out := make([]string, len(all))
	for i, c := range all {
		out[i] = string(c)
	}
	return out
}

// IsValid checks if the category is one of the accepted values.
func (c Category) IsValid() bool {
	for _, v := range All() {
		if c == v {
			return true
		}
	}
	return false
}

// Table maps a category to its associated lower-cased tags. Immutable after construction.
type Table struct {
	tags map[Category]map[string]struct{}
}

// NewTable builds a table from category name to tag list.
// Keys must be accepted categories other than Any. Categories left out have no entry
// and therefore match nothing.
func NewTable(entries map[string][]string) (Table, error) {
	t := Table{tags: make(map[Category]map[string]struct{}, len(entries))}
	for name, tags := range entries {
		c := Category(strings.ToLower(strings.TrimSpace(name)))
		if !c.IsValid() || c == Any {
			return Table{}, fmt.Errorf("unknown category %q", name)
		}
		set := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag != "" {
				set[tag] = struct{}{}
			}
		}
		t.tags[c] = set
	}
	return t, nil
}

// Default returns the built-in category table.
func Default() Table {
	t, _ := NewTable(map[string][]string{
		string(Parents):   {"parents", "mums", "toddlers", "babies", "family"},
		string(Fitness):   {"running", "cycling", "swimming", "yoga", "fitness", "hiking", "climbing"},
		string(Social):    {"social", "coffee", "pub", "games", "friends"},
		string(Creative):  {"art", "music", "writing", "photography", "sketching"},
		string(Career):    {"career", "networking", "startups", "coding", "tech"},
		string(Support):   {"support", "mental-health", "wellbeing", "neurodivergent"},
		string(Learning):  {"language", "learning", "study"},
		string(Community): {"volunteering", "community", "environment"},
		string(Pets):      {"dogs", "cats", "pets"},
	})
	return t
}

// Tags returns the tag set for c. The returned set is empty, not nil, for
// categories without an entry. Callers must not modify it.
func (t Table) Tags(c Category) map[string]struct{} {
	if set, ok := t.tags[c]; ok {
		return set
	}
	return map[string]struct{}{}
}

// Has reports whether the table has an entry for c.
func (t Table) Has(c Category) bool {
	_, ok := t.tags[c]
	return ok
}
