package users

import "context"

// Repository defines the persistence operations for User entities.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindBy(ctx context.Context, c Criteria) (User, error)
}
