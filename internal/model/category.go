package model

// Category groups games (e.g. "Strategy", "Party").
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
