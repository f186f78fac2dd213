package result

import "github.com/kailas-cloud/groupmatch/internal/domain/group"

// Pagination describes the page returned out of the filtered set.
// Field order is the serialized order.
type Pagination struct {
	Page         int  `json:"page"`
	PageSize     int  `json:"pageSize"`
	TotalResults int  `json:"totalResults"`
	TotalPages   int  `json:"totalPages"`
	HasMore      bool `json:"hasMore"`
}

// Result is one page of group search output.
type Result struct {
	Groups     []group.Group `json:"groups"`
	Pagination Pagination    `json:"pagination"`
}

// Paginate slices matches into the requested page.
// totalPages is ceil(len/pageSize), zero when there are no matches; the page is
// clamped into [1, max(totalPages,1)].
func Paginate(matches []group.Group, page, pageSize int) Result {
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(matches)
	totalPages := (total + pageSize - 1) / pageSize

	page = max(1, min(page, max(totalPages, 1)))

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	groups := make([]group.Group, end-start)
	copy(groups, matches[start:end])

	return Result{
		Groups: groups,
		Pagination: Pagination{
			Page:         page,
			PageSize:     pageSize,
			TotalResults: total,
			TotalPages:   totalPages,
			HasMore:      page < totalPages,
		},
	}
}
