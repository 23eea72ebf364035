package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/credisim/credisim-server/internal/model"
)

// SimulationStore is a mock implementation of model.SimulationStore.
type SimulationStore struct {
	mock.Mock
}

func (m *SimulationStore) Create(ctx context.Context, simulation model.Simulation) (int64, error) {
	args := m.Called(ctx, simulation)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SimulationStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Simulation, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Simulation), args.Error(1)
}

func (m *SimulationStore) GetByID(ctx context.Context, id int64, ownerID uuid.UUID) (model.Simulation, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(model.Simulation), args.Error(1)
}

func (m *SimulationStore) Update(ctx context.Context, simulation model.Simulation) error {
	args := m.Called(ctx, simulation)
	return args.Error(0)
}

func (m *SimulationStore) Delete(ctx context.Context, id int64, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
