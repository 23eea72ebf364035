package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/credisim/credisim-server/internal/logger"
	"github.com/credisim/credisim-server/internal/model"
)

// SaveSimulationParams contains parameters to create a simulation.
type SaveSimulationParams struct {
	OwnerID      uuid.UUID
	Amount       float64
	PaymentTerm  string
	StartDate    time.Time
	EndDate      time.Time
	InterestRate float64
}

// UpdateSimulationParams contains the full replacement field set for an
// existing simulation. Partial update is not supported.
type UpdateSimulationParams struct {
	ID           int64
	OwnerID      uuid.UUID
	Amount       float64
	PaymentTerm  string
	StartDate    time.Time
	EndDate      time.Time
	InterestRate float64
}

// Simulation provides owner-scoped operations over simulation records.
type Simulation struct {
	simulationStore model.SimulationStore
	logger          *logger.Logger
}

func NewSimulation(simulationStore model.SimulationStore, logger *logger.Logger) *Simulation {
	return &Simulation{
		simulationStore: simulationStore,
		logger:          logger,
	}
}

// Save validates that every field is present and persists the simulation,
// returning the store-assigned id.
func (s *Simulation) Save(ctx context.Context, params SaveSimulationParams) (int64, error) {
	if err := validateFields(params.OwnerID, params.Amount, params.PaymentTerm, params.StartDate, params.EndDate, params.InterestRate); err != nil {
		return 0, err
	}

	id, err := s.simulationStore.Create(ctx, model.Simulation{
		OwnerID:      params.OwnerID,
		Amount:       params.Amount,
		PaymentTerm:  params.PaymentTerm,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		InterestRate: params.InterestRate,
	})
	if err != nil {
		s.logger.Error("Simulation service: failed to save simulation",
			"owner_id", params.OwnerID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to save simulation: %w", err)
	}

	s.logger.Info("Simulation service: simulation saved",
		"owner_id", params.OwnerID,
		"simulation_id", id)

	return id, nil
}

// List returns the owner's simulations in store order.
func (s *Simulation) List(ctx context.Context, ownerID uuid.UUID) ([]model.Simulation, error) {
	simulations, err := s.simulationStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}

	return simulations, nil
}

// Get returns the simulation matching id and owner. Rows owned by another
// user resolve as not found.
func (s *Simulation) Get(ctx context.Context, id int64, ownerID uuid.UUID) (model.Simulation, error) {
	simulation, err := s.simulationStore.GetByID(ctx, id, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Simulation{}, model.NewValidationError("Simulation not found")
	}
	if err != nil {
		return model.Simulation{}, fmt.Errorf("failed to get simulation: %w", err)
	}

	return simulation, nil
}

// Update replaces all mutable fields of the owner's simulation.
func (s *Simulation) Update(ctx context.Context, params UpdateSimulationParams) (model.Simulation, error) {
	if err := validateFields(params.OwnerID, params.Amount, params.PaymentTerm, params.StartDate, params.EndDate, params.InterestRate); err != nil {
		return model.Simulation{}, err
	}

	err := s.simulationStore.Update(ctx, model.Simulation{
		ID:           params.ID,
		OwnerID:      params.OwnerID,
		Amount:       params.Amount,
		PaymentTerm:  params.PaymentTerm,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		InterestRate: params.InterestRate,
	})
	if errors.Is(err, model.ErrNotFound) {
		return model.Simulation{}, model.NewValidationError("Simulation update failed or does not exist")
	}
	if err != nil {
		s.logger.Error("Simulation service: failed to update simulation",
			"simulation_id", params.ID,
			"owner_id", params.OwnerID,
			"error", err.Error())
		return model.Simulation{}, fmt.Errorf("failed to update simulation: %w", err)
	}

	return s.simulationStore.GetByID(ctx, params.ID, params.OwnerID)
}

// Delete removes the owner's simulation.
func (s *Simulation) Delete(ctx context.Context, id int64, ownerID uuid.UUID) error {
	err := s.simulationStore.Delete(ctx, id, ownerID)
	if errors.Is(err, model.ErrNotFound) {
		return model.NewValidationError("Simulation delete failed or does not exist")
	}
	if err != nil {
		s.logger.Error("Simulation service: failed to delete simulation",
			"simulation_id", id,
			"owner_id", ownerID,
			"error", err.Error())
		return fmt.Errorf("failed to delete simulation: %w", err)
	}

	s.logger.Info("Simulation service: simulation deleted",
		"simulation_id", id,
		"owner_id", ownerID)

	return nil
}

func validateFields(ownerID uuid.UUID, amount float64, paymentTerm string, startDate, endDate time.Time, interestRate float64) error {
	if ownerID == uuid.Nil || amount == 0 || paymentTerm == "" ||
		startDate.IsZero() || endDate.IsZero() || interestRate == 0 {
		return model.NewValidationError("All fields are required")
	}
	return nil
}
