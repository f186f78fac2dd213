package sdk

import (
	"context"
	"encoding/json"

	domchat "github.com/kailas-cloud/groupmatch/internal/domain/chat"
	chatuc "github.com/kailas-cloud/groupmatch/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/groupmatch/internal/usecase/health"
)

// --- chatUseCase mock ---

type mockChatUC struct {
	replyFn func(ctx context.Context, history []domchat.Message) (chatuc.Reply, error)
}

func (m *mockChatUC) Reply(ctx context.Context, history []domchat.Message) (chatuc.Reply, error) {
	return m.replyFn(ctx, history)
}

// --- toolDispatcher mock ---

type mockDispatcher struct {
	dispatchFn func(ctx context.Context, name string, args json.RawMessage) (any, error)
}

func (m *mockDispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	return m.dispatchFn(ctx, name, args)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(chat chatUseCase, tools toolDispatcher, health healthUseCase) *Client {
	return &Client{chat: chat, tools: tools, health: health}
}
