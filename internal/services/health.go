package services

import "context"

// Health summarizes the readiness of one external generator.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy constructs a ready Health record.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy constructs an unhealthy Health record with context detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}

// HealthChecker is implemented by generator clients that can report readiness
// without performing work.
type HealthChecker interface {
	HealthCheck(ctx context.Context) Health
}
