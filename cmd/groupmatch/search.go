package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/groupmatch/internal/usecase/tools"
)

type searchFlags struct {
	keywords       []string
	category       string
	timePreference string
	page           int
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	sf := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the group catalog and print one page as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, _, err := flags.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			args, err := sf.arguments(cmd)
			if err != nil {
				return err
			}

			res, err := a.registry.Dispatch(cmd.Context(), tools.SearchGroupsName, args)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringSliceVarP(&sf.keywords, "keyword", "k", nil, "keyword to match (repeatable or comma-separated)")
	cmd.Flags().StringVarP(&sf.category, "category", "c", "", "category filter")
	cmd.Flags().StringVarP(&sf.timePreference, "time", "t", "", "time preference: weekday_morning, weekday_evening, weekend, any")
	cmd.Flags().IntVarP(&sf.page, "page", "p", 1, "1-based page")

	return cmd
}

// arguments builds searchGroups arguments, omitting flags the user did not set.
func (sf *searchFlags) arguments(cmd *cobra.Command) (json.RawMessage, error) {
	keywords := sf.keywords
	if keywords == nil {
		keywords = []string{}
	}
	args := map[string]any{"keywords": keywords}
	if sf.category != "" {
		args["category"] = sf.category
	}
	if sf.timePreference != "" {
		args["timePreference"] = sf.timePreference
	}
	if cmd.Flags().Changed("page") {
		args["page"] = sf.page
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode arguments: %w", err)
	}
	return raw, nil
}
