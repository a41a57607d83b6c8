package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/empdesk/internal/app/models"
	appRepos "github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/pkg/auth"
)

// AdminAccount is the administrator created on first start.
type AdminAccount struct {
	Username   string
	Password   string
	BcryptCost int
}

// CreateDefaultData creates the configured administrator if it does not exist.
// An empty username or password disables seeding.
func CreateDefaultData(ctx context.Context, users appRepos.UserStore, admin AdminAccount, lgr zerolog.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		lgr.Debug().Msg("No default admin configured, skipping seed")
		return nil
	}

	exists, err := users.UsernameExists(ctx, admin.Username)
	if err != nil {
		return fmt.Errorf("error checking if admin user exists: %w", err)
	}
	if exists {
		lgr.Info().Str("username", admin.Username).Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashedPassword, err := auth.HashPassword(admin.Password, admin.BcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	user := &appModels.User{Username: admin.Username, Password: hashedPassword}
	if err := users.Create(ctx, user); err != nil {
		// Another instance may have seeded it between the check and the insert.
		if errors.Is(err, appRepos.ErrDuplicateUsername) {
			return nil
		}
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Str("userID", user.ID.String()).Str("username", user.Username).Msg("Default admin user created successfully")
	return nil
}
