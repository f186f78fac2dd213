package tools

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/groupmatch/internal/domain/search/category"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/params"
	"github.com/kailas-cloud/groupmatch/internal/domain/search/timewindow"
	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
)

// SearchGroupsName is the tool name exposed to the backend.
const SearchGroupsName = "searchGroups"

// SearchGroupsArgs is the argument shape of searchGroups.
type SearchGroupsArgs struct {
	Keywords       []string `json:"keywords" validate:"required"`
	Category       *string  `json:"category,omitempty" validate:"omitempty,oneof=parents fitness social creative career support learning community pets any"`
	TimePreference *string  `json:"timePreference,omitempty" validate:"omitempty,oneof=weekday_morning weekday_evening weekend any"`
	Page           *int     `json:"page,omitempty"`
}

// Params converts validated arguments into search parameters.
func (a SearchGroupsArgs) Params() params.Params {
	p := params.Params{Keywords: a.Keywords}
	if a.Category != nil {
		p.Category = category.Category(*a.Category)
	}
	if a.TimePreference != nil {
		p.TimePreference = timewindow.Preference(*a.TimePreference)
	}
	if a.Page != nil {
		p.Page = *a.Page
	}
	return p
}

// SearchGroupsSpec describes searchGroups to the backend.
func SearchGroupsSpec() tool.Spec {
	return tool.Spec{
		Name: SearchGroupsName,
		Description: "Search the catalog of local interest groups. " +
			"Returns at most one page of groups plus pagination. " +
			"Request the next page with page when hasMore is true.",
		Parameters: &tool.Schema{
			Type: tool.TypeObject,
			Properties: map[string]*tool.Schema{
				"keywords": {
					Type:        tool.TypeArray,
					Description: "Words to match against group names, descriptions and tags. Empty matches everything.",
					Items:       &tool.Schema{Type: tool.TypeString},
				},
				"category": {
					Type:        tool.TypeString,
					Description: "Broad interest area.",
					Enum:        category.Strings(),
				},
				"timePreference": {
					Type:        tool.TypeString,
					Description: "When the user is free.",
					Enum:        timewindow.Strings(),
				},
				"page": {
					Type:        tool.TypeInteger,
					Description: "1-based result page.",
				},
			},
			Required: []string{"keywords"},
		},
	}
}

// NewSearchGroups builds the searchGroups tool over s.
func NewSearchGroups(s Searcher, v *validator.Validate) Tool {
	return Tool{
		Spec: SearchGroupsSpec(),
		Handler: Typed(v, SearchGroupsName, func(ctx context.Context, args SearchGroupsArgs) (any, error) {
			return s.Search(ctx, args.Params()), nil
		}),
	}
}

// NewDefaultRegistry returns a registry holding searchGroups.
func NewDefaultRegistry(s Searcher) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(NewSearchGroups(s, NewValidator())); err != nil {
		return nil, fmt.Errorf("register %s: %w", SearchGroupsName, err)
	}
	return r, nil
}
