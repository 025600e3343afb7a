package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/erazemk/boardcamp/internal/model"
)

// seedRentals creates category 1, game 1 (stock 1, 1500 per day) and
// customers 1 and 2.
func seedRentals(t *testing.T, ts *testServer) {
	t.Helper()
	ts.expect(t, http.StatusCreated, "POST", "/categories", map[string]string{"name": "Strategy"})
	game := gameBody("Catan", 1)
	game["stockTotal"] = 1
	ts.expect(t, http.StatusCreated, "POST", "/games", game)
	ts.expect(t, http.StatusCreated, "POST", "/customers", customerBody("João", "01234567890"))
	ts.expect(t, http.StatusCreated, "POST", "/customers", customerBody("Maria", "98765432100"))
}

func rentalBody(customerID, gameID int64, days int) map[string]any {
	return map[string]any{"customerId": customerID, "gameId": gameID, "daysRented": days}
}

func TestRentalsAPIFlow(t *testing.T) {
	ts := setupTestServer(t)
	seedRentals(t, ts)

	var rental model.Rental
	decodeBody(t, ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(1, 1, 3)), &rental)
	if rental.RentDate.String() != "2024-03-01" {
		t.Errorf("expected rent date 2024-03-01, got %s", rental.RentDate)
	}
	if rental.OriginalPrice != 4500 || rental.ReturnDate != nil || rental.DelayFee != nil {
		t.Errorf("unexpected new rental: %+v", rental)
	}
	if rental.Customer.Name != "João" || rental.Game.CategoryName != "Strategy" {
		t.Errorf("unexpected joined fields: %+v %+v", rental.Customer, rental.Game)
	}

	// The only copy is rented out.
	ts.expect(t, http.StatusBadRequest, "POST", "/rentals", rentalBody(2, 1, 1))

	// Same-day return carries no fee.
	decodeBody(t, ts.expect(t, http.StatusOK, "POST", "/rentals/1/return", nil), &rental)
	if rental.ReturnDate == nil || rental.ReturnDate.String() != "2024-03-01" {
		t.Errorf("expected return date 2024-03-01, got %v", rental.ReturnDate)
	}
	if rental.DelayFee != nil {
		t.Errorf("expected no delay fee, got %d", *rental.DelayFee)
	}

	ts.expect(t, http.StatusBadRequest, "POST", "/rentals/1/return", nil)

	// The copy is back in stock.
	ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(2, 1, 3))

	// Active rentals cannot be deleted; returned ones can.
	ts.expect(t, http.StatusBadRequest, "DELETE", "/rentals/2", nil)
	ts.expect(t, http.StatusOK, "DELETE", "/rentals/1", nil)
	ts.expect(t, http.StatusNotFound, "GET", "/rentals/1", nil)
	ts.expect(t, http.StatusNotFound, "DELETE", "/rentals/1", nil)
}

func TestReturnRentalLate(t *testing.T) {
	ts := setupTestServer(t)
	seedRentals(t, ts)

	ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(1, 1, 3))

	// Rented 2024-03-01 for three days, returned 2024-03-07 at noon.
	ts.clock.Advance(6*24*time.Hour + 2*time.Hour)

	var rental model.Rental
	decodeBody(t, ts.expect(t, http.StatusOK, "POST", "/rentals/1/return", nil), &rental)
	if rental.ReturnDate == nil || rental.ReturnDate.String() != "2024-03-07" {
		t.Errorf("expected return date 2024-03-07, got %v", rental.ReturnDate)
	}
	if rental.DelayFee == nil || *rental.DelayFee != 3000 {
		t.Errorf("expected delay fee 3000, got %v", rental.DelayFee)
	}

	var metrics model.RentalMetrics
	decodeBody(t, ts.expect(t, http.StatusOK, "GET", "/rentals/metrics", nil), &metrics)
	if metrics.Revenue != 7500 || metrics.Rentals != 1 || metrics.Average != 7500 {
		t.Errorf("unexpected metrics: %+v", metrics)
	}
}

func TestReturnRentalFeeBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    *int64
	}{
		// Rented 2024-03-01 10:00 for three days at 1500 per day.
		{"returned after three days", 3 * 24 * time.Hour, nil},
		{"returned after four days", 4 * 24 * time.Hour, ptrInt64(0)},
		{"returned after five days", 5 * 24 * time.Hour, ptrInt64(1500)},
		{"returned after six days", 6 * 24 * time.Hour, ptrInt64(3000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)
			seedRentals(t, ts)
			ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(1, 1, 3))

			ts.clock.Advance(tt.elapsed)

			var rental model.Rental
			decodeBody(t, ts.expect(t, http.StatusOK, "POST", "/rentals/1/return", nil), &rental)
			switch {
			case tt.want == nil && rental.DelayFee != nil:
				t.Errorf("expected no delay fee, got %d", *rental.DelayFee)
			case tt.want != nil && rental.DelayFee == nil:
				t.Errorf("expected delay fee %d, got none", *tt.want)
			case tt.want != nil && *rental.DelayFee != *tt.want:
				t.Errorf("expected delay fee %d, got %d", *tt.want, *rental.DelayFee)
			}
		})
	}
}

func ptrInt64(v int64) *int64 { return &v }

func TestCreateRentalValidation(t *testing.T) {
	ts := setupTestServer(t)
	seedRentals(t, ts)

	tests := []struct {
		name string
		body any
	}{
		{"missing customer", rentalBody(99, 1, 1)},
		{"missing game", rentalBody(1, 99, 1)},
		{"zero days", rentalBody(1, 1, 0)},
		{"negative days", rentalBody(1, 1, -2)},
		{"zero customer", rentalBody(0, 1, 1)},
		{"string id", map[string]any{"customerId": "1", "gameId": 1, "daysRented": 1}},
		{"fractional days", map[string]any{"customerId": 1, "gameId": 1, "daysRented": 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.expect(t, http.StatusBadRequest, "POST", "/rentals", tt.body)
		})
	}
}

func TestRentalIDsAreValidated(t *testing.T) {
	ts := setupTestServer(t)

	for _, id := range []string{"abc", "0", "-1", "99"} {
		ts.expect(t, http.StatusNotFound, "GET", "/rentals/"+id, nil)
		ts.expect(t, http.StatusNotFound, "POST", "/rentals/"+id+"/return", nil)
		ts.expect(t, http.StatusNotFound, "DELETE", "/rentals/"+id, nil)
	}
}

func TestListRentalsFilters(t *testing.T) {
	ts := setupTestServer(t)
	seedRentals(t, ts)
	game := gameBody("Azul", 1)
	ts.expect(t, http.StatusCreated, "POST", "/games", game)

	ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(1, 1, 1))
	ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(1, 2, 1))
	ts.clock.Advance(24 * time.Hour)
	ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(2, 2, 1))
	ts.expect(t, http.StatusOK, "POST", "/rentals/1/return", nil)

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?customerId=1", 2},
		{"?gameId=2", 2},
		{"?customerId=1&gameId=2", 1},
		{"?customerId=2&gameId=1", 0},
		{"?status=open", 2},
		{"?status=closed", 1},
		{"?startDate=2024-03-02", 1},
		{"?order=customerId&desc=true&limit=1", 1},
	}
	for _, tt := range tests {
		var rentals []model.Rental
		decodeBody(t, ts.expect(t, http.StatusOK, "GET", "/rentals"+tt.query, nil), &rentals)
		if len(rentals) != tt.want {
			t.Errorf("GET /rentals%s: expected %d rentals, got %d", tt.query, tt.want, len(rentals))
		}
	}

	for _, query := range []string{"?customerId=abc", "?gameId=1.5", "?customerId=-1", "?customerId=1&gameId=x"} {
		ts.expect(t, http.StatusMethodNotAllowed, "GET", "/rentals"+query, nil)
	}
	for _, query := range []string{"?status=lost", "?startDate=2024-02-30"} {
		ts.expect(t, http.StatusBadRequest, "GET", "/rentals"+query, nil)
	}
}

func TestRentalMetricsRange(t *testing.T) {
	ts := setupTestServer(t)
	seedRentals(t, ts)

	ts.expect(t, http.StatusCreated, "POST", "/rentals", rentalBody(1, 1, 2))

	var metrics model.RentalMetrics
	decodeBody(t, ts.expect(t, http.StatusOK, "GET", "/rentals/metrics?startDate=2024-03-02", nil), &metrics)
	if metrics != (model.RentalMetrics{}) {
		t.Errorf("expected empty metrics after the rent date, got %+v", metrics)
	}

	decodeBody(t, ts.expect(t, http.StatusOK, "GET", "/rentals/metrics?startDate=2024-03-01&endDate=2024-03-01", nil), &metrics)
	if metrics.Revenue != 3000 || metrics.Rentals != 1 {
		t.Errorf("unexpected metrics: %+v", metrics)
	}

	ts.expect(t, http.StatusBadRequest, "GET", "/rentals/metrics?startDate=2024-03-05&endDate=2024-03-01", nil)
	ts.expect(t, http.StatusBadRequest, "GET", "/rentals/metrics?endDate=yesterday", nil)
}
