package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/dberrors"
	"github.com/yigit/empdesk/internal/pkg/logger"
)

// EmployeeEmailConstraint is the unique index on employees.email.
const EmployeeEmailConstraint = "employees_email_key"

var employeeColumns = []string{
	"id", "name", "email", "mobile", "designation", "gender",
	"courses", "image", "is_active", "created_at", "updated_at",
}

// EmployeeRepository handles database operations for employees
type EmployeeRepository struct {
	DB *pgxpool.Pool
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{DB: db}
}

var _ EmployeeStore = (*EmployeeRepository)(nil)

func returningEmployee() string {
	return "RETURNING " + strings.Join(employeeColumns, ", ")
}

// ScanEmployee scans a row into an Employee.
func ScanEmployee(row pgx.Row) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Mobile, &e.Designation, &e.Gender,
		&e.Courses, &e.Image, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if e.Courses == nil {
		e.Courses = []string{}
	}
	return &e, nil
}

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	sql, args, err := squirrel.Insert("employees").
		Columns("name", "email", "mobile", "designation", "gender", "courses", "image", "is_active").
		Values(e.Name, e.Email, e.Mobile, e.Designation, e.Gender, e.Courses, e.Image, e.IsActive).
		Suffix(returningEmployee()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create employee SQL")
		return err
	}

	stored, err := ScanEmployee(r.DB.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, EmployeeEmailConstraint) {
			return fmt.Errorf("%w: %s", ErrDuplicateEmail, e.Email)
		}
		logger.Error().Err(err).Msg("Error executing create employee query")
		return err
	}

	*e = *stored
	return nil
}

// GetByID retrieves a single employee.
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	sql, args, err := squirrel.Select(employeeColumns...).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get employee by ID SQL")
		return nil, err
	}

	return ScanEmployee(r.DB.QueryRow(ctx, sql, args...))
}

// ExistsByEmail checks whether an employee other than excludeID uses email.
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	inner := squirrel.Select("1").From("employees").Where(squirrel.Eq{"email": email})
	if excludeID != nil {
		inner = inner.Where(squirrel.NotEq{"id": *excludeID})
	}
	sql, args, err := squirrel.Select().
		Column(squirrel.Expr("EXISTS(?)", inner)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building employee email exists SQL")
		return false, err
	}

	var exists bool
	if err := r.DB.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking employee email: %w", err)
	}
	return exists, nil
}

// applyEmployeeFilter adds the WHERE clauses shared by the list and count queries.
func applyEmployeeFilter(b squirrel.SelectBuilder, filter models.EmployeeFilter) squirrel.SelectBuilder {
	if filter.Search != "" {
		pattern := "%" + EscapeLike(filter.Search) + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	if filter.Email != "" {
		b = b.Where(squirrel.Eq{"email": filter.Email})
	}
	return b
}

// EscapeLike escapes the LIKE wildcards so the term matches literally.
func EscapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// OrderClauses returns the ORDER BY terms for filter. Unknown sort keys fall
// back to insertion order.
func OrderClauses(filter models.EmployeeFilter) []string {
	natural := []string{"created_at ASC", "id ASC"}
	column, ok := models.SortColumns[filter.SortBy]
	if !ok {
		return natural
	}
	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}
	return append([]string{column + " " + dir}, natural...)
}

// List retrieves a filtered, sorted page of employees and the filtered total.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error) {
	if filter.Offset < 0 || filter.Limit < 0 {
		return nil, 0, ErrNegativePaging
	}

	countSql, countArgs, err := applyEmployeeFilter(
		squirrel.Select("count(*)").From("employees").PlaceholderFormat(squirrel.Dollar), filter,
	).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count employees SQL")
		return nil, 0, err
	}

	var total int64
	if err := r.DB.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count employees query")
		return nil, 0, err
	}
	if total == 0 || int64(filter.Offset) >= total {
		return []*models.Employee{}, total, nil
	}

	sqlBuilder := applyEmployeeFilter(
		squirrel.Select(employeeColumns...).From("employees").PlaceholderFormat(squirrel.Dollar), filter,
	).OrderBy(OrderClauses(filter)...).Offset(uint64(filter.Offset))
	if filter.Limit > 0 {
		sqlBuilder = sqlBuilder.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := sqlBuilder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list employees SQL")
		return nil, 0, err
	}

	rows, err := r.DB.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list employees query")
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]*models.Employee, 0, filter.Limit)
	for rows.Next() {
		e, err := ScanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("database iteration error: %w", err)
	}

	return employees, total, nil
}

// Update applies patch to the employee and returns the updated row.
func (r *EmployeeRepository) Update(ctx context.Context, id uuid.UUID, patch models.EmployeePatch) (*models.Employee, error) {
	builder := squirrel.Update("employees").
		SetMap(patchColumns(patch)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix(returningEmployee()).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update employee SQL")
		return nil, err
	}

	e, err := ScanEmployee(r.DB.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, EmployeeEmailConstraint) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return e, nil
}

func patchColumns(p models.EmployeePatch) map[string]interface{} {
	set := map[string]interface{}{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Mobile != nil {
		set["mobile"] = *p.Mobile
	}
	if p.Designation != nil {
		set["designation"] = *p.Designation
	}
	if p.Gender != nil {
		set["gender"] = *p.Gender
	}
	if p.Courses != nil {
		set["courses"] = p.Courses
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.IsActive != nil {
		set["is_active"] = *p.IsActive
	}
	return set
}

// Delete deletes an employee by its ID and returns the removed row.
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	sql, args, err := squirrel.Delete("employees").
		Where(squirrel.Eq{"id": id}).
		Suffix(returningEmployee()).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete employee SQL")
		return nil, err
	}

	return ScanEmployee(r.DB.QueryRow(ctx, sql, args...))
}
