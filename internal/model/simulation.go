package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SimulationStore defines persistence operations for simulations.
// Every read and mutation is scoped by the owner: a row whose id exists but
// belongs to another user resolves as ErrNotFound.
type SimulationStore interface {
	Create(ctx context.Context, simulation Simulation) (int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Simulation, error)
	GetByID(ctx context.Context, id int64, ownerID uuid.UUID) (Simulation, error)
	Update(ctx context.Context, simulation Simulation) error
	Delete(ctx context.Context, id int64, ownerID uuid.UUID) error
}

// Simulation represents a stored credit simulation owned by a user.
type Simulation struct {
	ID           int64
	OwnerID      uuid.UUID
	Amount       float64
	PaymentTerm  string
	StartDate    time.Time
	EndDate      time.Time
	InterestRate float64
	CreatedAt    time.Time
}
