package model

import "time"

// Day is the unit rentals are priced and fined in.
const Day = 24 * time.Hour

// Rental statuses used for filtering.
const (
	RentalStatusOpen   = "open"
	RentalStatusClosed = "closed"
)

// Rental is one customer renting one copy of a game.
// ReturnDate and DelayFee stay nil while the rental is active.
type Rental struct {
	ID            int64  `json:"id"`
	CustomerID    int64  `json:"customerId"`
	GameID        int64  `json:"gameId"`
	RentDate      Date   `json:"rentDate"`
	DaysRented    int    `json:"daysRented"`
	ReturnDate    *Date  `json:"returnDate"`
	OriginalPrice int64  `json:"originalPrice"`
	DelayFee      *int64 `json:"delayFee"`

	// Joined fields.
	Customer RentalCustomer `json:"customer"`
	Game     RentalGame     `json:"game"`
}

// RentalCustomer is the customer summary embedded in a Rental.
type RentalCustomer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RentalGame is the game summary embedded in a Rental.
type RentalGame struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// Active reports whether the game has not been returned yet.
func (r *Rental) Active() bool {
	return r.ReturnDate == nil
}

// RentalMetrics aggregates revenue over a set of rentals.
type RentalMetrics struct {
	Revenue int64 `json:"revenue"`
	Rentals int64 `json:"rentals"`
	Average int64 `json:"average"`
}

// OriginalPrice is the price agreed when the rental starts.
func OriginalPrice(daysRented int, pricePerDay int64) int64 {
	return int64(daysRented) * pricePerDay
}

// DelayFee returns the late fee for a rental started on rentDate and returned
// at now, or nil when the return is on time.
//
// The rent day counts from local midnight and one day is taken off the
// elapsed time before comparing it with the rented duration, so a rental is
// late only after daysRented full days plus the day of return. Each whole day
// past that costs pricePerDay.
func DelayFee(rentDate Date, daysRented int, pricePerDay int64, now time.Time) *int64 {
	elapsed := now.Add(-Day).Sub(rentDate.Time(now.Location()))
	allowed := time.Duration(daysRented) * Day
	if elapsed <= allowed {
		return nil
	}

	delayDays := int64((elapsed - allowed) / Day)
	fee := delayDays * pricePerDay
	return &fee
}
