package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/dberrors"
)

// UsernameConstraint is the unique index on users.username.
const UsernameConstraint = "users_username_key"

// UserRepository handles credential records
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

var _ UserStore = (*UserRepository)(nil)

// Create inserts a user and fills in its ID and creation time
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := squirrel.Insert("users").
		Columns("username", "password").
		Values(user.Username, user.Password).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, UsernameConstraint) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	sql, args, err := squirrel.Select("id", "username", "password", "created_at").
		From("users").
		Where(squirrel.Eq{"username": username}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	user := &models.User{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// UsernameExists checks if a username is already registered
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	sql, args, err := usernameExistsQuery(username)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

func usernameExistsQuery(username string) (string, []interface{}, error) {
	inner := squirrel.Select("1").From("users").Where(squirrel.Eq{"username": username})
	return squirrel.Select().
		Column(squirrel.Expr("EXISTS(?)", inner)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
