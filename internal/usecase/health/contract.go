package health

import "context"

// CachePinger checks key-value store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker checks reasoning backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}
