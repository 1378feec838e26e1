package users

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Criteria is an equality filter. Exactly one field must be set.
type Criteria struct {
	ID    uuid.NullUUID
	Email string
}
