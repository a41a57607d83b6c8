package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/domain"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/helpers"
	"github.com/yigit/empdesk/internal/pkg/metrics"
	"github.com/yigit/empdesk/internal/pkg/validation"
)

// Employee operation names used for logging and metrics.
const (
	OpCreate    = "create"
	OpGet       = "get"
	OpUpdate    = "update"
	OpSetActive = "set_active"
	OpDelete    = "delete"
	OpList      = "list"
)

// MsgDuplicateEmail is returned when another employee already uses the email.
const MsgDuplicateEmail = "Email already exists"

// FileRemover deletes stored uploads.
type FileRemover interface {
	DeleteFile(path string) error
}

// OperationRecorder counts employee operations by outcome.
type OperationRecorder interface {
	RecordEmployeeOperation(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordEmployeeOperation(string, string) {}

// ListParams are the raw list query options.
type ListParams struct {
	Search string
	Email  string
	SortBy string
	Order  string
	Page   int
	Limit  int
}

// ListResult is one page of employees.
type ListResult struct {
	Employees   []*models.Employee
	TotalCount  int64
	TotalPages  int
	CurrentPage int
}

// EmployeeService runs the validate, duplicate check and persist workflow for
// employee records.
type EmployeeService struct {
	store    repositories.EmployeeStore
	files    FileRemover
	recorder OperationRecorder
	logger   zerolog.Logger
}

// NewEmployeeService creates a new employee service. recorder may be nil.
func NewEmployeeService(store repositories.EmployeeStore, files FileRemover, recorder OperationRecorder, logger zerolog.Logger) *EmployeeService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &EmployeeService{
		store:    store,
		files:    files,
		recorder: recorder,
		logger:   logger.With().Str("component", "employee_service").Logger(),
	}
}

// Create validates input, checks the email is free and stores the record.
// The uploaded image is removed again when the record is not created.
func (s *EmployeeService) Create(ctx context.Context, in validation.EmployeeInput, image *domain.ImageDescriptor) (employee *models.Employee, err error) {
	defer func() { s.finish(OpCreate, err) }()
	defer func() {
		if err != nil && image != nil {
			s.removeFile(image.Path)
		}
	}()

	e, violations := validation.ValidateCreate(in, image)
	if err := violations.Err(); err != nil {
		return nil, err
	}

	// Racy pre-check for a friendly error; the unique index is authoritative.
	taken, err := s.store.ExistsByEmail(ctx, e.Email, nil)
	if err != nil {
		return nil, apperrors.NewStoreError("check employee email", err)
	}
	if taken {
		return nil, apperrors.NewFieldConflictError(validation.FieldEmail, MsgDuplicateEmail)
	}

	if err := s.store.Create(ctx, &e); err != nil {
		return nil, apperrors.NewStoreError("create employee", err)
	}

	s.logger.Info().Str("employee_id", e.ID.String()).Msg("Employee created")
	return &e, nil
}

// Get returns the employee with the given identifier.
func (s *EmployeeService) Get(ctx context.Context, rawID string) (employee *models.Employee, err error) {
	defer func() { s.finish(OpGet, err) }()

	id, err := ParseEmployeeID(rawID)
	if err != nil {
		return nil, err
	}
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get employee", err)
	}
	return e, nil
}

// Update applies the submitted fields to an existing employee. The merged
// record must pass the same field rules as a new one, the image excepted.
func (s *EmployeeService) Update(ctx context.Context, rawID string, in validation.EmployeeInput, image *domain.ImageDescriptor) (employee *models.Employee, err error) {
	defer func() { s.finish(OpUpdate, err) }()
	defer func() {
		if err != nil && image != nil {
			s.removeFile(image.Path)
		}
	}()

	id, err := ParseEmployeeID(rawID)
	if err != nil {
		return nil, err
	}

	patch, violations := validation.NormalizePatch(in, image)

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get employee", err)
	}

	merged := patch.Apply(*existing)
	violations = append(violations, validation.ValidateMerged(merged)...)
	if err := violations.Err(); err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != existing.Email {
		taken, err := s.store.ExistsByEmail(ctx, *patch.Email, &id)
		if err != nil {
			return nil, apperrors.NewStoreError("check employee email", err)
		}
		if taken {
			return nil, apperrors.NewFieldConflictError(validation.FieldEmail, MsgDuplicateEmail)
		}
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update employee", err)
	}

	if patch.Image != nil && existing.Image != "" && existing.Image != updated.Image {
		s.removeFile(existing.Image)
	}

	s.logger.Info().Str("employee_id", id.String()).Msg("Employee updated")
	return updated, nil
}

// SetActive flips the employee's active flag.
func (s *EmployeeService) SetActive(ctx context.Context, rawID string, active bool) (employee *models.Employee, err error) {
	defer func() { s.finish(OpSetActive, err) }()

	id, err := ParseEmployeeID(rawID)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, id, models.EmployeePatch{IsActive: &active})
	if err != nil {
		return nil, storeErr("set employee status", err)
	}

	s.logger.Info().Str("employee_id", id.String()).Bool("active", active).Msg("Employee status changed")
	return updated, nil
}

// Delete removes the employee and, best effort, its image file.
func (s *EmployeeService) Delete(ctx context.Context, rawID string) (err error) {
	defer func() { s.finish(OpDelete, err) }()

	id, err := ParseEmployeeID(rawID)
	if err != nil {
		return err
	}
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return storeErr("delete employee", err)
	}
	s.removeFile(removed.Image)

	s.logger.Info().Str("employee_id", id.String()).Msg("Employee deleted")
	return nil
}

// List returns one page of employees matching params.
func (s *EmployeeService) List(ctx context.Context, params ListParams) (result *ListResult, err error) {
	defer func() { s.finish(OpList, err) }()

	page, limit := helpers.NormalizePage(params.Page, params.Limit)
	offset, _ := helpers.CalculateOffsetLimit(page, limit)

	filter := models.EmployeeFilter{
		Search: strings.TrimSpace(params.Search),
		Email:  strings.TrimSpace(params.Email),
		Desc:   strings.EqualFold(params.Order, "desc"),
		Offset: int(offset),
		Limit:  limit,
	}
	if _, ok := models.SortColumns[models.SortField(params.SortBy)]; ok {
		filter.SortBy = models.SortField(params.SortBy)
	}

	employees, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreError("list employees", err)
	}

	return &ListResult{
		Employees:   employees,
		TotalCount:  total,
		TotalPages:  helpers.TotalPages(total, limit),
		CurrentPage: page,
	}, nil
}

// ParseEmployeeID checks the identifier is well formed before any lookup.
func ParseEmployeeID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidEmployeeID
	}
	return id, nil
}

// storeErr passes not-found through and wraps everything else as a store failure.
func storeErr(op string, err error) error {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return apperrors.ErrEmployeeNotFound
	}
	return apperrors.NewStoreError(op, err)
}

func (s *EmployeeService) removeFile(path string) {
	if s.files == nil || path == "" {
		return
	}
	if err := s.files.DeleteFile(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove employee image")
	}
}

func (s *EmployeeService) finish(op string, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrInvalidID):
		outcome = metrics.OutcomeInvalid
	case errors.Is(err, apperrors.ErrConflict):
		outcome = metrics.OutcomeConflict
	case errors.Is(err, apperrors.ErrResourceNotFound):
		outcome = metrics.OutcomeNotFound
	default:
		outcome = metrics.OutcomeError
	}
	s.recorder.RecordEmployeeOperation(op, outcome)
}
