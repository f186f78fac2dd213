package sdk

import "github.com/kailas-cloud/groupmatch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration    = domain.ErrConfiguration
	ErrToolArgument     = domain.ErrToolArgument
	ErrBackendTransport = domain.ErrBackendTransport
	ErrBudgetExceeded   = domain.ErrBudgetExceeded
)
