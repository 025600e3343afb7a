package model

import (
	"fmt"
	"time"
)

// Staff is an employee account allowed to modify data when authentication
// is enabled.
type Staff struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MinPasswordLength is the shortest accepted staff password.
const MinPasswordLength = 8

// ValidatePassword checks a new staff password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
