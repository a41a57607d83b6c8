package memory

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

func seed(t *testing.T, s *EmployeeStore, name, email string) *models.Employee {
	t.Helper()
	e := &models.Employee{Name: name, Email: email, Courses: []string{models.CourseMCA}, IsActive: true}
	require.NoError(t, s.Create(context.Background(), e))
	return e
}

func TestEmployeeStoreUniqueEmail(t *testing.T) {
	s := NewEmployeeStore()
	first := seed(t, s, "A", "a@b.com")

	err := s.Create(context.Background(), &models.Employee{Name: "B", Email: "a@b.com"})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

	taken, err := s.ExistsByEmail(context.Background(), "a@b.com", &first.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestEmployeeStoreListSearchSortPage(t *testing.T) {
	s := NewEmployeeStore()
	for i := 0; i < 15; i++ {
		seed(t, s, fmt.Sprintf("Jane %02d", i), fmt.Sprintf("j%02d@example.com", i))
	}
	seed(t, s, "Bob", "JANE.bob@example.com")
	seed(t, s, "Alice", "alice@example.com")

	page, total, err := s.List(context.Background(), models.EmployeeFilter{
		Search: "jane", SortBy: models.SortByName, Desc: true, Offset: 10, Limit: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(16), total)
	require.Len(t, page, 6)
	assert.Equal(t, "Jane 04", page[0].Name)
	assert.Equal(t, "Bob", page[5].Name)
}

func TestEmployeeStoreListPastTheEnd(t *testing.T) {
	s := NewEmployeeStore()
	seed(t, s, "Jane", "jane@example.com")

	page, total, err := s.List(context.Background(), models.EmployeeFilter{Offset: math.MaxInt64 - 5, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, page)

	_, _, err = s.List(context.Background(), models.EmployeeFilter{Offset: -10, Limit: 10})
	assert.ErrorIs(t, err, repositories.ErrNegativePaging)
}

func TestEmployeeStoreListSortsByCreateTime(t *testing.T) {
	s := NewEmployeeStore()
	base := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	stamps := []time.Time{
		base.Add(120 * time.Millisecond),
		base.Add(100 * time.Millisecond),
		base,
		base.Add(500 * time.Millisecond),
	}
	next := 0
	s.now = func() time.Time {
		ts := stamps[next]
		next++
		return ts
	}
	for i := range stamps {
		seed(t, s, fmt.Sprintf("E%d", i), fmt.Sprintf("e%d@example.com", i))
	}

	page, _, err := s.List(context.Background(), models.EmployeeFilter{SortBy: models.SortByCreateDate, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, []string{"E2", "E1", "E0", "E3"}, names(page))

	page, _, err = s.List(context.Background(), models.EmployeeFilter{SortBy: models.SortByCreateDate, Desc: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"E3", "E0", "E1", "E2"}, names(page))
}

func names(page []*models.Employee) []string {
	out := make([]string, 0, len(page))
	for _, e := range page {
		out = append(out, e.Name)
	}
	return out
}

func TestEmployeeStoreNotFound(t *testing.T) {
	s := NewEmployeeStore()

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = s.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
