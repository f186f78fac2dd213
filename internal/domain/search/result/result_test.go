package result

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/kailas-cloud/groupmatch/internal/domain/group"
)

func groups(t *testing.T, n int) []group.Group {
	t.Helper()
	out := make([]group.Group, n)
	for i := range out {
		g, err := group.New(fmt.Sprintf("g%d", i), fmt.Sprintf("Group %d", i), "", nil, "")
		if err != nil {
			t.Fatalf("group.New: %v", err)
		}
		out[i] = g
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		page       int
		wantPage   int
		wantLen    int
		wantPages  int
		wantMore   bool
		wantFirstI int
	}{
		{"empty", 0, 1, 1, 0, 0, false, -1},
		{"empty page beyond", 0, 4, 1, 0, 0, false, -1},
		{"single page", 3, 1, 1, 3, 1, false, 0},
		{"first of two", 7, 1, 1, 5, 2, true, 0},
		{"second of two", 7, 2, 2, 2, 2, false, 5},
		{"clamped high", 7, 5, 2, 2, 2, false, 5},
		{"clamped low", 7, 0, 1, 5, 2, true, 0},
		{"negative", 7, -2, 1, 5, 2, true, 0},
		{"exact multiple", 10, 2, 2, 5, 2, false, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Paginate(groups(t, tt.total), tt.page, 5)
			p := r.Pagination
			if p.Page != tt.wantPage || p.TotalPages != tt.wantPages || p.HasMore != tt.wantMore {
				t.Errorf("pagination = %+v", p)
			}
			if p.PageSize != 5 || p.TotalResults != tt.total {
				t.Errorf("pagination = %+v", p)
			}
			if len(r.Groups) != tt.wantLen {
				t.Fatalf("len(groups) = %d, want %d", len(r.Groups), tt.wantLen)
			}
			if tt.wantFirstI >= 0 && r.Groups[0].ID() != fmt.Sprintf("g%d", tt.wantFirstI) {
				t.Errorf("first = %s", r.Groups[0].ID())
			}
		})
	}
}

func TestResult_JSONFieldOrder(t *testing.T) {
	r := Paginate(nil, 1, 5)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"groups":[],"pagination":{"page":1,"pageSize":5,"totalResults":0,"totalPages":0,"hasMore":false}}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}
