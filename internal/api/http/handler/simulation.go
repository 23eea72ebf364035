package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/credisim/credisim-server/internal/logger"
	"github.com/credisim/credisim-server/internal/model"
	"github.com/credisim/credisim-server/internal/service"
)

const dateLayout = "2006-01-02"

// Simulation exposes owner-scoped simulation endpoints.
type Simulation struct {
	simulations    *service.Simulation
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewSimulation creates a new Simulation handler instance.
func NewSimulation(simulations *service.Simulation, contextManager model.ContextManager, logger *logger.Logger) *Simulation {
	return &Simulation{simulations: simulations, contextManager: contextManager, logger: logger}
}

// saveSimulationRequest mirrors the browser client's field names.
type saveSimulationRequest struct {
	UserID      string  `json:"userId"`
	Monto       float64 `json:"monto"`
	TerminoPago string  `json:"terminoPago"`
	FechaInicio string  `json:"fechaInicio"`
	FechaFin    string  `json:"fechaFin"`
	TasaInteres float64 `json:"tasaInteres"`
}

// simulationRow mirrors the store column names the client renders.
type simulationRow struct {
	ID          int64     `json:"id"`
	Monto       float64   `json:"monto"`
	TerminoPago string    `json:"termino_pago"`
	FechaInicio string    `json:"fecha_inicio"`
	FechaFin    string    `json:"fecha_fin"`
	Tasa        float64   `json:"tasa"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRow(s model.Simulation) simulationRow {
	return simulationRow{
		ID:          s.ID,
		Monto:       s.Amount,
		TerminoPago: s.PaymentTerm,
		FechaInicio: s.StartDate.Format(dateLayout),
		FechaFin:    s.EndDate.Format(dateLayout),
		Tasa:        s.InterestRate,
		CreatedAt:   s.CreatedAt,
	}
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Save persists a new simulation under the caller-supplied owner id.
func (h *Simulation) Save(w http.ResponseWriter, r *http.Request) {
	var req saveSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	ownerID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "All fields are required"})
		return
	}

	startDate, endDate, err := parseDates(req.FechaInicio, req.FechaFin)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "All fields are required"})
		return
	}

	id, err := h.simulations.Save(r.Context(), service.SaveSimulationParams{
		OwnerID:      ownerID,
		Amount:       req.Monto,
		PaymentTerm:  req.TerminoPago,
		StartDate:    startDate,
		EndDate:      endDate,
		InterestRate: req.TasaInteres,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success      bool  `json:"success"`
		SimulationID int64 `json:"simulationId"`
	}{
		Success:      true,
		SimulationID: id,
	})
}

// List returns the simulations owned by the user in the path.
func (h *Simulation) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid user id"})
		return
	}

	simulations, err := h.simulations.List(r.Context(), ownerID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	rows := make([]simulationRow, 0, len(simulations))
	for _, s := range simulations {
		rows = append(rows, toRow(s))
	}

	writeJSON(w, http.StatusOK, struct {
		Success     bool            `json:"success"`
		Simulations []simulationRow `json:"simulations"`
	}{
		Success:     true,
		Simulations: rows,
	})
}

// Get returns a single simulation owned by the authenticated user.
func (h *Simulation) Get(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	simulation, err := h.simulations.Get(r.Context(), id, identity.UserID)
	if model.IsValidationError(err) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRow(simulation))
}

// updateSimulationRequest mirrors the update form's field names.
type updateSimulationRequest struct {
	Amount       float64 `json:"amount"`
	PaymentTerm  string  `json:"paymentTerm"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	InterestRate float64 `json:"interestRate"`
}

type updatedSimulation struct {
	ID           int64   `json:"id"`
	Amount       float64 `json:"amount"`
	PaymentTerm  string  `json:"paymentTerm"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	InterestRate float64 `json:"interestRate"`
}

// Update replaces all fields of the authenticated user's simulation.
func (h *Simulation) Update(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req updateSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}

	if req.Amount == 0 || req.PaymentTerm == "" || req.StartDate == "" || req.EndDate == "" || req.InterestRate == 0 {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "All fields are required"})
		return
	}

	startDate, endDate, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "All fields are required"})
		return
	}

	simulation, err := h.simulations.Update(r.Context(), service.UpdateSimulationParams{
		ID:           id,
		OwnerID:      identity.UserID,
		Amount:       req.Amount,
		PaymentTerm:  req.PaymentTerm,
		StartDate:    startDate,
		EndDate:      endDate,
		InterestRate: req.InterestRate,
	})
	if model.IsValidationError(err) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message    string            `json:"message"`
		Simulation updatedSimulation `json:"simulation"`
	}{
		Message: "Simulation updated",
		Simulation: updatedSimulation{
			ID:           simulation.ID,
			Amount:       simulation.Amount,
			PaymentTerm:  simulation.PaymentTerm,
			StartDate:    simulation.StartDate.Format(dateLayout),
			EndDate:      simulation.EndDate.Format(dateLayout),
			InterestRate: simulation.InterestRate,
		},
	})
}

// Delete removes the authenticated user's simulation.
func (h *Simulation) Delete(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.scope(w, r)
	if !ok {
		return
	}

	err := h.simulations.Delete(r.Context(), id, identity.UserID)
	if model.IsValidationError(err) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: err.Error()})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Simulation deleted"})
}

// scope extracts the authenticated identity and the path id. Ownership for
// mutations is always the verified token identity, never the request body.
func (h *Simulation) scope(w http.ResponseWriter, r *http.Request) (model.Identity, int64, bool) {
	identity, found := h.contextManager.GetIdentityFromContext(r.Context())
	if !found {
		http.Error(w, "Access not authorized", http.StatusUnauthorized)
		return model.Identity{}, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid simulation id"})
		return model.Identity{}, 0, false
	}

	return identity, id, true
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startDate, endDate, nil
}
