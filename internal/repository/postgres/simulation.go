package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/credisim/credisim-server/internal/model"
)

var _ model.SimulationStore = (*SimulationRepository)(nil)

type SimulationRepository struct {
	db DB
}

func NewSimulationRepository(db DB) *SimulationRepository {
	return &SimulationRepository{
		db: db,
	}
}

// Create inserts the simulation and returns its store-assigned id.
func (r *SimulationRepository) Create(ctx context.Context, simulation model.Simulation) (int64, error) {
	query := `INSERT INTO simulations (owner_id, amount, payment_term, start_date, end_date, interest_rate)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		simulation.OwnerID, simulation.Amount, simulation.PaymentTerm,
		simulation.StartDate, simulation.EndDate, simulation.InterestRate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create simulation: %w", err)
	}

	return id, nil
}

// ListByOwner returns the owner's simulations in store order.
func (r *SimulationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Simulation, error) {
	query := `
		SELECT s.id, s.owner_id, s.amount, s.payment_term, s.start_date, s.end_date, s.interest_rate, s.created_at
		FROM simulations s
		WHERE s.owner_id = $1`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var simulations []model.Simulation
	for rows.Next() {
		var simulation model.Simulation
		err := rows.Scan(
			&simulation.ID, &simulation.OwnerID, &simulation.Amount, &simulation.PaymentTerm,
			&simulation.StartDate, &simulation.EndDate, &simulation.InterestRate, &simulation.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		simulations = append(simulations, simulation)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return simulations, nil
}

// GetByID returns the simulation matching both id and owner, or ErrNotFound.
func (r *SimulationRepository) GetByID(ctx context.Context, id int64, ownerID uuid.UUID) (model.Simulation, error) {
	query := `
		SELECT s.id, s.owner_id, s.amount, s.payment_term, s.start_date, s.end_date, s.interest_rate, s.created_at
		FROM simulations s
		WHERE s.id = $1 AND s.owner_id = $2`

	var simulation model.Simulation
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&simulation.ID, &simulation.OwnerID, &simulation.Amount, &simulation.PaymentTerm,
		&simulation.StartDate, &simulation.EndDate, &simulation.InterestRate, &simulation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Simulation{}, model.ErrNotFound
		}
		return model.Simulation{}, fmt.Errorf("failed to get simulation by id: %w", err)
	}

	return simulation, nil
}

// Update replaces all mutable fields of the row matching id and owner.
func (r *SimulationRepository) Update(ctx context.Context, simulation model.Simulation) error {
	const query = `UPDATE simulations
				   SET amount = $1, payment_term = $2, start_date = $3, end_date = $4, interest_rate = $5
				   WHERE id = $6 AND owner_id = $7`

	cmd, err := r.db.Exec(ctx, query,
		simulation.Amount, simulation.PaymentTerm, simulation.StartDate,
		simulation.EndDate, simulation.InterestRate,
		simulation.ID, simulation.OwnerID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes the row matching id and owner.
func (r *SimulationRepository) Delete(ctx context.Context, id int64, ownerID uuid.UUID) error {
	const query = `DELETE FROM simulations WHERE id = $1 AND owner_id = $2`
	cmd, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
