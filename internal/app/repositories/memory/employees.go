// Package memory provides in-process stores with the same contract as the
// PostgreSQL repositories.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

type employeeRow struct {
	seq int
	e   models.Employee
}

// EmployeeStore keeps employees in a map guarded by a mutex.
type EmployeeStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*employeeRow
	seq  int
	now  func() time.Time
}

// NewEmployeeStore returns an empty store.
func NewEmployeeStore() *EmployeeStore {
	return &EmployeeStore{rows: map[uuid.UUID]*employeeRow{}, now: time.Now}
}

var _ repositories.EmployeeStore = (*EmployeeStore)(nil)

func clone(e models.Employee) *models.Employee {
	e.Courses = append([]string{}, e.Courses...)
	return &e
}

func (s *EmployeeStore) emailTaken(email string, exclude uuid.UUID) bool {
	for id, row := range s.rows {
		if id != exclude && row.e.Email == email {
			return true
		}
	}
	return false
}

// Create stores e, enforcing email uniqueness like the unique index does.
func (s *EmployeeStore) Create(_ context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(e.Email, uuid.Nil) {
		return repositories.ErrDuplicateEmail
	}
	now := s.now()
	e.ID = uuid.New()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Courses == nil {
		e.Courses = []string{}
	}
	s.seq++
	s.rows[e.ID] = &employeeRow{seq: s.seq, e: *clone(*e)}
	return nil
}

// GetByID returns a copy of the stored record.
func (s *EmployeeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	return clone(row.e), nil
}

// ExistsByEmail reports whether another record holds email.
func (s *EmployeeStore) ExistsByEmail(_ context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exclude := uuid.Nil
	if excludeID != nil {
		exclude = *excludeID
	}
	return s.emailTaken(email, exclude), nil
}

func matches(e models.Employee, filter models.EmployeeFilter) bool {
	if filter.Email != "" && e.Email != filter.Email {
		return false
	}
	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		return strings.Contains(strings.ToLower(e.Name), term) || strings.Contains(strings.ToLower(e.Email), term)
	}
	return true
}

// compareBy orders a and b on field; ok is false for unknown fields.
func compareBy(a, b models.Employee, field models.SortField) (cmp int, ok bool) {
	switch field {
	case models.SortByCreateDate:
		return a.CreatedAt.Compare(b.CreatedAt), true
	case models.SortByActive:
		return boolRank(a.IsActive) - boolRank(b.IsActive), true
	}
	ka, ok := textKey(a, field)
	if !ok {
		return 0, false
	}
	kb, _ := textKey(b, field)
	return strings.Compare(ka, kb), true
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}

func textKey(e models.Employee, field models.SortField) (string, bool) {
	switch field {
	case models.SortByName:
		return e.Name, true
	case models.SortByEmail:
		return e.Email, true
	case models.SortByMobile:
		return e.Mobile, true
	case models.SortByDesignation:
		return e.Designation, true
	case models.SortByGender:
		return e.Gender, true
	}
	return "", false
}

// List filters, sorts and pages the stored records.
func (s *EmployeeStore) List(_ context.Context, filter models.EmployeeFilter) ([]*models.Employee, int64, error) {
	if filter.Offset < 0 || filter.Limit < 0 {
		return nil, 0, repositories.ErrNegativePaging
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*employeeRow, 0, len(s.rows))
	for _, row := range s.rows {
		if matches(row.e, filter) {
			matched = append(matched, row)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if c, ok := compareBy(a.e, b.e, filter.SortBy); ok && c != 0 {
			if filter.Desc {
				return c > 0
			}
			return c < 0
		}
		return a.seq < b.seq
	})

	total := int64(len(matched))
	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Limit < end-start {
		end = start + filter.Limit
	}

	out := make([]*models.Employee, 0, end-start)
	for _, row := range matched[start:end] {
		out = append(out, clone(row.e))
	}
	return out, total, nil
}

// Update applies patch to the stored record.
func (s *EmployeeStore) Update(_ context.Context, id uuid.UUID, patch models.EmployeePatch) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	if patch.Email != nil && s.emailTaken(*patch.Email, id) {
		return nil, repositories.ErrDuplicateEmail
	}
	row.e = patch.Apply(row.e)
	row.e.UpdatedAt = s.now()
	return clone(row.e), nil
}

// Delete removes the record and returns it.
func (s *EmployeeStore) Delete(_ context.Context, id uuid.UUID) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrEmployeeNotFound
	}
	delete(s.rows, id)
	return clone(row.e), nil
}
