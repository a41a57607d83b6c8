package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an administrator allowed to manage employees.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
