package main

import (
	"encoding/json"
	"testing"
)

func TestSearchArguments(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want map[string]any
	}{
		{
			name: "no flags",
			argv: nil,
			want: map[string]any{"keywords": []any{}},
		},
		{
			name: "all flags",
			argv: []string{"-k", "yoga,run", "--category", "fitness", "--time", "weekend", "--page", "2"},
			want: map[string]any{
				"keywords":       []any{"yoga", "run"},
				"category":       "fitness",
				"timePreference": "weekend",
				"page":           float64(2),
			},
		},
		{
			name: "repeated keyword",
			argv: []string{"-k", "yoga", "-k", "tea"},
			want: map[string]any{"keywords": []any{"yoga", "tea"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newSearchCmd(&rootFlags{})
			if err := cmd.ParseFlags(tt.argv); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			sf := &searchFlags{}
			sf.keywords, _ = cmd.Flags().GetStringSlice("keyword")
			sf.category, _ = cmd.Flags().GetString("category")
			sf.timePreference, _ = cmd.Flags().GetString("time")
			sf.page, _ = cmd.Flags().GetInt("page")

			raw, err := sf.arguments(cmd)
			if err != nil {
				t.Fatalf("arguments: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				gb, _ := json.Marshal(got[k])
				wb, _ := json.Marshal(v)
				if string(gb) != string(wb) {
					t.Errorf("%s = %s, want %s", k, gb, wb)
				}
			}
		})
	}
}
