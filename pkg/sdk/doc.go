// Package sdk embeds the group recommender in a Go program without running the
// HTTP server.
//
//	client, _ := sdk.New(ctx,
//	    sdk.WithGemini(os.Getenv("GEMINI_API_KEY"), ""),
//	    sdk.WithModerator(os.Getenv("OPENAI_API_KEY")),
//	)
//	reply, _ := client.Chat(ctx, []sdk.Message{sdk.UserMessage("I like hiking on weekends")})
//	page, _ := client.Search(ctx, sdk.SearchQuery{Keywords: []string{"yoga"}, Category: "fitness"})
//
// Backends are tried in the order their options are given; the first one with a
// non-blank API key is used. Without any, Chat fails with ErrConfiguration while
// Search keeps working.
package sdk
