package student

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Student entities.
// Students are created by provisioning tooling, never by the check-in flow;
// the service layer only reads them and advances their status.
type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id string) (*Student, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateLastIntervention(ctx context.Context, id string, interventionID string) error
}
