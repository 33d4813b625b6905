package ports

import "context"

// HealthChecker is a dependency probe; Check returns an error when the
// dependency should be reported as unhealthy.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
