package group

import "fmt"

// Corpus is the ordered, read-only catalog of groups.
// It is built once at startup and safe for concurrent reads.
type Corpus struct {
	groups []Group
}

// NewCorpus copies groups into a corpus, rejecting duplicate IDs.
func NewCorpus(groups []Group) (Corpus, error) {
	seen := make(map[string]struct{}, len(groups))
	cp := make([]Group, 0, len(groups))
	for i, g := range groups {
		if g.id == "" {
			return Corpus{}, fmt.Errorf("group [%d]: id is required", i)
		}
		if _, dup := seen[g.id]; dup {
			return Corpus{}, fmt.Errorf("group [%d]: duplicate id %q", i, g.id)
		}
		seen[g.id] = struct{}{}
		cp = append(cp, g)
	}
	return Corpus{groups: cp}, nil
}

// Len returns the number of groups.
func (c Corpus) Len() int { return len(c.groups) }

// At returns the group at position i in corpus order.
func (c Corpus) At(i int) Group { return c.groups[i] }

// All returns a copy of the groups in corpus order.
func (c Corpus) All() []Group {
	out := make([]Group, len(c.groups))
	copy(out, c.groups)
	return out
}
