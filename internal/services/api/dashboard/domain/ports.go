package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}
