package agent

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/groupmatch/internal/domain/tool"
)

// ToolDispatcher exposes registered tools to the orchestrator.
type ToolDispatcher interface {
	Specs() []tool.Spec
	Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error)
}
