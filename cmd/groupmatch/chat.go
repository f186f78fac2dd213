package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	domchat "github.com/kailas-cloud/groupmatch/internal/domain/chat"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Run one chat turn and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := strings.TrimSpace(strings.Join(args, " "))
			if msg == "" {
				return fmt.Errorf("message must not be blank")
			}

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

			ctx := cmd.Context()
			if cfg.Agent.TurnTimeoutSec > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Agent.TurnTimeoutSec)*time.Second)
				defer cancel()
			}

			reply, err := a.chat.Reply(ctx, []domchat.Message{domchat.User(msg)})
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return nil
		},
	}
}
