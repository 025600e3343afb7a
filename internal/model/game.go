package model

// Game is a rentable board game title. StockTotal is the number of copies.
// Prices are in cents.
type Game struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	StockTotal  int    `json:"stockTotal"`
	CategoryID  int64  `json:"categoryId"`
	PricePerDay int64  `json:"pricePerDay"`

	// Joined field.
	CategoryName string `json:"categoryName"`
}
