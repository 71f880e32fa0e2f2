package health

import "context"

// Pinger checks a backing store (session cache, prediction recorder).
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelChecker checks that both models are loaded and reachable.
type ModelChecker interface {
	HealthCheck(ctx context.Context) error
}
