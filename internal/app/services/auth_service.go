package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/auth"
	"github.com/yigit/empdesk/internal/pkg/metrics"
)

// Auth messages returned to clients.
const (
	MsgRegisterFieldsRequired = "Username, password, and confirm password are required"
	MsgPasswordsDoNotMatch    = "Passwords do not match"
	MsgUsernameExists         = "Username already exists"
	MsgLoginFieldsRequired    = "Username and password are required"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgLogoutSuccessful       = "Logout successful"
)

// AuthRecorder counts register and login attempts by outcome.
type AuthRecorder interface {
	RecordAuthOperation(operation, outcome string)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(user *models.User) (string, int, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.UserStore
	tokens     TokenIssuer
	bcryptCost int
	recorder   AuthRecorder
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService. recorder may be nil.
func NewAuthService(userRepo repositories.UserStore, tokens TokenIssuer, bcryptCost int, recorder AuthRecorder, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		recorder:   recorder,
		logger:     logger.With().Str("component", "auth_service").Logger(),
	}
}

// Register creates a new administrator account.
func (s *AuthService) Register(ctx context.Context, username, password, confirmPassword string) (user *models.User, err error) {
	defer func() { s.record("register", err) }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" || confirmPassword == "" {
		return nil, apperrors.NewValidationError(MsgRegisterFieldsRequired, nil)
	}
	if password != confirmPassword {
		fields := apperrors.FieldErrors{}
		fields.Add("confirmPassword", MsgPasswordsDoNotMatch)
		return nil, apperrors.NewValidationError(MsgPasswordsDoNotMatch, fields)
	}

	exists, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperrors.NewStoreError("check username", err)
	}
	if exists {
		return nil, apperrors.NewFieldConflictError("username", MsgUsernameExists)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewStoreError("hash password", err)
	}

	user = &models.User{Username: username, Password: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil, apperrors.NewFieldConflictError("username", MsgUsernameExists)
		}
		return nil, apperrors.NewStoreError("create user", err)
	}

	s.logger.Info().Str("username", username).Msg("User registered")
	return user, nil
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (token string, expiresIn int, err error) {
	defer func() { s.record("login", err) }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", 0, apperrors.NewValidationError(MsgLoginFieldsRequired, nil)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", 0, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)
		}
		return "", 0, apperrors.NewStoreError("get user", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return "", 0, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidCredentials)
	}

	token, expiresIn, err = s.tokens.GenerateToken(user)
	if err != nil {
		return "", 0, apperrors.NewStoreError("issue token", err)
	}

	s.logger.Info().Str("username", username).Msg("User logged in")
	return token, expiresIn, nil
}

// Logout is stateless: tokens stay valid until they expire.
func (s *AuthService) Logout() string {
	return MsgLogoutSuccessful
}

func (s *AuthService) record(op string, err error) {
	if s.recorder == nil {
		return
	}
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrInvalidCredentials):
		outcome = metrics.OutcomeInvalid
	case errors.Is(err, apperrors.ErrConflict):
		outcome = metrics.OutcomeConflict
	default:
		outcome = metrics.OutcomeError
	}
	s.recorder.RecordAuthOperation(op, outcome)
}
