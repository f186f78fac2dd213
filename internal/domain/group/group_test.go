package group

import (
	"encoding/json"
	"testing"
)

func TestNew(t *testing.T) {
	g, err := New("g1", "Evening Run Club", "5k loops by the river", []string{"running", " ", "Fitness"}, " Weekday evenings ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ID() != "g1" {
		t.Errorf("ID() = %q", g.ID())
	}
	if got := g.Tags(); len(got) != 2 || got[0] != "running" || got[1] != "Fitness" {
		t.Errorf("Tags() = %v", got)
	}
	if g.Cadence() != "Weekday evenings" {
		t.Errorf("Cadence() = %q", g.Cadence())
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "name", "", nil, ""); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := New("g1", "  ", "", nil, ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestTags_ReturnsCopy(t *testing.T) {
	g, _ := New("g1", "n", "", []string{"a"}, "")
	tags := g.Tags()
	tags[0] = "changed"
	if g.Tags()[0] != "a" {
		t.Error("Tags() exposed internal slice")
	}
}

func TestContains(t *testing.T) {
	g, _ := New("g1", "Evening Run Club", "Social 5k", []string{"running"}, "")
	for _, needle := range []string{"run", "social", "running", "club"} {
		if !g.Contains(needle) {
			t.Errorf("Contains(%q) = false", needle)
		}
	}
	if g.Contains("yoga") {
		t.Error("Contains(yoga) = true")
	}
}

func TestHasAnyTag_CaseInsensitive(t *testing.T) {
	g, _ := New("g1", "n", "", []string{"Running"}, "")
	if !g.HasAnyTag(map[string]struct{}{"running": {}}) {
		t.Error("expected tag match")
	}
	if g.HasAnyTag(map[string]struct{}{}) {
		t.Error("empty set must not match")
	}
}

func TestMarshalJSON_FieldOrder(t *testing.T) {
	g, _ := New("g1", "Chess", "Casual games", nil, "")
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"g1","name":"Chess","description":"Casual games","tags":[]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestNewCorpus(t *testing.T) {
	a, _ := New("a", "A", "", nil, "")
	b, _ := New("b", "B", "", nil, "")

	c, err := NewCorpus([]Group{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 || c.At(1).ID() != "b" {
		t.Errorf("unexpected corpus: len=%d", c.Len())
	}

	all := c.All()
	all[0] = b
	if c.At(0).ID() != "a" {
		t.Error("All() exposed internal slice")
	}
}

func TestNewCorpus_DuplicateID(t *testing.T) {
	a, _ := New("a", "A", "", nil, "")
	if _, err := NewCorpus([]Group{a, a}); err == nil {
		t.Error("expected duplicate id error")
	}
}

func TestNewCorpus_ZeroGroup(t *testing.T) {
	if _, err := NewCorpus([]Group{{}}); err == nil {
		t.Error("expected error for zero-value group")
	}
}
