package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
	"github.com/erazemk/boardcamp/internal/store"
	"github.com/erazemk/boardcamp/internal/validate"
)

// RentalsHandler handles rental endpoints.
type RentalsHandler struct {
	DB  *db.Conn
	Now func() time.Time
}

type createRentalRequest struct {
	CustomerID int64 `json:"customerId" validate:"required,gt=0"`
	GameID     int64 `json:"gameId" validate:"required,gt=0"`
	DaysRented int   `json:"daysRented" validate:"required,gt=0"`
}

// List handles GET /rentals. Malformed customerId or gameId filters answer
// 405, which existing clients rely on.
func (h *RentalsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f store.RentalFilter
	var ok bool
	if f.CustomerID, ok = queryID(q, "customerId"); !ok {
		jsonError(w, http.StatusMethodNotAllowed, "customerId must be a positive integer")
		return
	}
	if f.GameID, ok = queryID(q, "gameId"); !ok {
		jsonError(w, http.StatusMethodNotAllowed, "gameId must be a positive integer")
		return
	}

	f.Status = q.Get("status")
	if f.Status != "" && f.Status != model.RentalStatusOpen && f.Status != model.RentalStatusClosed {
		writeError(w, r, validate.Field("status", "oneof=open closed"), "list rentals")
		return
	}

	var err error
	if f.StartDate, err = queryDate(q, "startDate"); err != nil {
		writeError(w, r, err, "list rentals")
		return
	}

	opts, err := listOptions(q)
	if err != nil {
		writeError(w, r, err, "list rentals")
		return
	}

	rentals, err := store.ListRentals(r.Context(), h.DB, f, opts)
	if err != nil {
		writeError(w, r, err, "list rentals")
		return
	}
	if rentals == nil {
		rentals = []model.Rental{}
	}
	jsonResponse(w, http.StatusOK, rentals)
}

// Get handles GET /rentals/{id}.
func (h *RentalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, "rental not found")
		return
	}

	rental, err := store.GetRental(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err, "get rental")
		return
	}
	if rental == nil {
		jsonError(w, http.StatusNotFound, "rental not found")
		return
	}
	jsonResponse(w, http.StatusOK, rental)
}

// Metrics handles GET /rentals/metrics.
func (h *RentalsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := queryDate(q, "startDate")
	if err != nil {
		writeError(w, r, err, "compute rental metrics")
		return
	}
	end, err := queryDate(q, "endDate")
	if err != nil {
		writeError(w, r, err, "compute rental metrics")
		return
	}

	metrics, err := store.GetRentalMetrics(r.Context(), h.DB, start, end)
	if err != nil {
		writeError(w, r, err, "compute rental metrics")
		return
	}
	jsonResponse(w, http.StatusOK, metrics)
}

// Create handles POST /rentals. The rent date is today.
func (h *RentalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "create rental")
		return
	}

	today := model.DateOf(h.Now())
	rental, err := store.CreateRental(r.Context(), h.DB, req.CustomerID, req.GameID, req.DaysRented, today)
	if err != nil {
		writeError(w, r, err, "create rental")
		return
	}

	slog.Info("rental created", "id", rental.ID, "customer", rental.CustomerID, "game", rental.GameID, "days", rental.DaysRented)
	jsonResponse(w, http.StatusCreated, rental)
}

// Return handles POST /rentals/{id}/return.
func (h *RentalsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, "rental not found")
		return
	}

	rental, err := store.ReturnRental(r.Context(), h.DB, id, h.Now())
	if err != nil {
		writeError(w, r, err, "return rental")
		return
	}

	if rental.DelayFee != nil {
		slog.Info("rental returned late", "id", id, "delay_fee", *rental.DelayFee)
	} else {
		slog.Info("rental returned", "id", id)
	}
	jsonResponse(w, http.StatusOK, rental)
}

// Delete handles DELETE /rentals/{id}. Only returned rentals can be deleted.
func (h *RentalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, "rental not found")
		return
	}

	if err := store.DeleteRental(r.Context(), h.DB, id); err != nil {
		writeError(w, r, err, "delete rental")
		return
	}

	slog.Info("rental deleted", "id", id)
	w.WriteHeader(http.StatusOK)
}
