package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yigit/empdesk/internal/app/models"
)

// Store errors. A duplicate reported here means the unique index rejected the
// write; callers decide how to present it.
var (
	ErrDuplicateEmail    = errors.New("employee email violates unique constraint")
	ErrDuplicateUsername = errors.New("username violates unique constraint")
	ErrUserNotFound      = errors.New("user not found")
	ErrNegativePaging    = errors.New("list offset and limit must not be negative")
)

// EmployeeStore defines the persistence operations on employee records
type EmployeeStore interface {
	// Create inserts e and fills in its identifier and timestamps
	Create(ctx context.Context, e *models.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	// ExistsByEmail reports whether another record holds email. excludeID, when
	// set, is ignored so a record never conflicts with itself.
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	// List returns one page of the filtered set plus the size of the whole set
	List(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error)
	// Update applies patch and returns the stored result
	Update(ctx context.Context, id uuid.UUID, patch models.EmployeePatch) (*models.Employee, error)
	// Delete removes the record and returns it as it was
	Delete(ctx context.Context, id uuid.UUID) (*models.Employee, error)
}

// UserStore defines the persistence operations on administrator credentials
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}
