package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/app/repositories"
	"github.com/yigit/empdesk/internal/app/repositories/memory"
	"github.com/yigit/empdesk/internal/domain"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/metrics"
	"github.com/yigit/empdesk/internal/pkg/validation"
)

type fakeFiles struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeFiles) DeleteFile(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
	return nil
}

type fakeRecorder struct {
	calls map[string]int
}

func (r *fakeRecorder) RecordEmployeeOperation(op, outcome string) {
	r.calls[op+"/"+outcome]++
}

// raceStore reports every email as free so Create reaches the unique index.
type raceStore struct {
	*memory.EmployeeStore
}

func (raceStore) ExistsByEmail(context.Context, string, *uuid.UUID) (bool, error) {
	return false, nil
}

type EmployeeServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.EmployeeStore
	files    *fakeFiles
	recorder *fakeRecorder
	svc      *EmployeeService
}

func TestEmployeeServiceSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceSuite))
}

func (s *EmployeeServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewEmployeeStore()
	s.files = &fakeFiles{}
	s.recorder = &fakeRecorder{calls: map[string]int{}}
	s.svc = NewEmployeeService(s.store, s.files, s.recorder, zerolog.Nop())
}

func ptr(v string) *string { return &v }

func input(name, email string) validation.EmployeeInput {
	return validation.EmployeeInput{
		Name:        ptr(name),
		Email:       ptr(email),
		Mobile:      ptr("1234567890"),
		Designation: ptr(models.DesignationManager),
		Gender:      ptr(models.GenderMale),
		Courses:     validation.EncodedCourses(`["MCA","BCA"]`),
	}
}

func image(name string) *domain.ImageDescriptor {
	return &domain.ImageDescriptor{Path: "uploads/" + name, MediaType: domain.MediaTypePNG, Size: 42}
}

func (s *EmployeeServiceSuite) create(name, email string) *models.Employee {
	e, err := s.svc.Create(s.ctx, input(name, email), image(name+".png"))
	s.Require().NoError(err)
	return e
}

func (s *EmployeeServiceSuite) TestCreateStoresNormalizedFields() {
	e := s.create("Jane", "jane@example.com")

	s.NotEqual(uuid.Nil, e.ID)
	stored, err := s.store.GetByID(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("Jane", stored.Name)
	s.Equal("jane@example.com", stored.Email)
	s.Equal([]string{"MCA", "BCA"}, stored.Courses)
	s.Equal("uploads/Jane.png", stored.Image)
	s.True(stored.IsActive)
	s.Equal(1, s.recorder.calls["create/"+metrics.OutcomeSuccess])
}

func (s *EmployeeServiceSuite) TestCreateMissingFields() {
	in := input("Jane", "jane@example.com")
	in.Mobile = nil
	in.Gender = nil

	_, err := s.svc.Create(s.ctx, in, image("jane.png"))

	var ve *apperrors.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal([]string{validation.FieldGender, validation.FieldMobile}, ve.Fields.Fields())
	s.Equal([]string{"uploads/jane.png"}, s.files.removed)
	s.Equal(1, s.recorder.calls["create/"+metrics.OutcomeInvalid])
}

func (s *EmployeeServiceSuite) TestCreateRejectedImageReportedWithOtherFields() {
	in := input("Jane", "jane@example.com")
	in.Mobile = ptr("12345")
	in.ImageRejected = validation.RuleFormat

	_, err := s.svc.Create(s.ctx, in, nil)

	var ve *apperrors.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal([]string{validation.FieldImage, validation.FieldMobile}, ve.Fields.Fields())
	s.Empty(s.files.removed)
}

func (s *EmployeeServiceSuite) TestCreateDuplicateEmail() {
	s.create("A", "a@b.com")

	_, err := s.svc.Create(s.ctx, input("B", "a@b.com"), image("b.png"))

	var ce *apperrors.ConflictError
	s.Require().ErrorAs(err, &ce)
	s.Equal(validation.FieldEmail, ce.Field)
	_, total, err := s.store.List(s.ctx, models.EmployeeFilter{Email: "a@b.com"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *EmployeeServiceSuite) TestCreateLostRaceIsStoreError() {
	svc := NewEmployeeService(raceStore{s.store}, s.files, nil, zerolog.Nop())
	_, err := svc.Create(s.ctx, input("A", "a@b.com"), image("a.png"))
	s.Require().NoError(err)

	_, err = svc.Create(s.ctx, input("B", "a@b.com"), image("b.png"))

	var se *apperrors.StoreError
	s.Require().ErrorAs(err, &se)
	s.ErrorIs(err, repositories.ErrDuplicateEmail)
	s.False(errors.Is(err, apperrors.ErrConflict))
}

func (s *EmployeeServiceSuite) TestUpdateSingleFieldKeepsTheRest() {
	e := s.create("Jane", "jane@example.com")

	updated, err := s.svc.Update(s.ctx, e.ID.String(), validation.EmployeeInput{Designation: ptr(models.DesignationDeveloper)}, nil)

	s.Require().NoError(err)
	s.Equal(models.DesignationDeveloper, updated.Designation)
	s.Equal(e.Name, updated.Name)
	s.Equal(e.Email, updated.Email)
	s.Equal(e.Mobile, updated.Mobile)
	s.Equal(e.Gender, updated.Gender)
	s.Equal(e.Courses, updated.Courses)
	s.Equal(e.Image, updated.Image)
	s.Equal(e.CreatedAt, updated.CreatedAt)
	s.Empty(s.files.removed)
}

func (s *EmployeeServiceSuite) TestUpdateRejectsEmptyCourses() {
	e := s.create("Jane", "jane@example.com")

	_, err := s.svc.Update(s.ctx, e.ID.String(), validation.EmployeeInput{Courses: validation.EncodedCourses("[]")}, nil)

	var ve *apperrors.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Contains(ve.Fields, validation.FieldCourse)
	stored, _ := s.store.GetByID(s.ctx, e.ID)
	s.Equal([]string{"MCA", "BCA"}, stored.Courses)
}

func (s *EmployeeServiceSuite) TestUpdateCoursesFallbackIsRejectedByMembership() {
	e := s.create("Jane", "jane@example.com")

	_, err := s.svc.Update(s.ctx, e.ID.String(), validation.EmployeeInput{Courses: validation.EncodedCourses("[MCA")}, nil)

	s.ErrorIs(err, apperrors.ErrValidationFailed)
}

func (s *EmployeeServiceSuite) TestUpdateReplacesImage() {
	e := s.create("Jane", "jane@example.com")

	updated, err := s.svc.Update(s.ctx, e.ID.String(), validation.EmployeeInput{}, image("new.png"))

	s.Require().NoError(err)
	s.Equal("uploads/new.png", updated.Image)
	s.Equal([]string{"uploads/Jane.png"}, s.files.removed)
}

func (s *EmployeeServiceSuite) TestUpdateRejectedImageReportedWithMergedErrors() {
	e := s.create("Jane", "jane@example.com")

	_, err := s.svc.Update(s.ctx, e.ID.String(), validation.EmployeeInput{
		Mobile:        ptr("12345"),
		ImageRejected: validation.RuleSize,
	}, nil)

	var ve *apperrors.ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal(validation.Message(validation.FieldImage, validation.RuleSize), ve.Fields[validation.FieldImage])
	s.Contains(ve.Fields, validation.FieldMobile)
}

func (s *EmployeeServiceSuite) TestUpdateEmailConflict() {
	s.create("A", "a@b.com")
	b := s.create("B", "b@b.com")

	_, err := s.svc.Update(s.ctx, b.ID.String(), validation.EmployeeInput{Email: ptr("a@b.com")}, nil)
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.svc.Update(s.ctx, b.ID.String(), validation.EmployeeInput{Email: ptr("b@b.com")}, nil)
	s.NoError(err)
}

func (s *EmployeeServiceSuite) TestUpdateUnknownAndMalformedID() {
	_, err := s.svc.Update(s.ctx, uuid.NewString(), validation.EmployeeInput{Name: ptr("X")}, image("x.png"))
	s.ErrorIs(err, apperrors.ErrResourceNotFound)
	s.Equal([]string{"uploads/x.png"}, s.files.removed)

	_, err = s.svc.Update(s.ctx, "not-an-id", validation.EmployeeInput{Name: ptr("X")}, nil)
	s.ErrorIs(err, apperrors.ErrInvalidID)
}

func (s *EmployeeServiceSuite) TestGet() {
	e := s.create("Jane", "jane@example.com")

	got, err := s.svc.Get(s.ctx, e.ID.String())
	s.Require().NoError(err)
	s.Equal(e.ID, got.ID)

	_, err = s.svc.Get(s.ctx, "123")
	s.ErrorIs(err, apperrors.ErrInvalidID)
}

func (s *EmployeeServiceSuite) TestSetActive() {
	e := s.create("Jane", "jane@example.com")

	updated, err := s.svc.SetActive(s.ctx, e.ID.String(), false)

	s.Require().NoError(err)
	s.False(updated.IsActive)
	s.Equal(e.Name, updated.Name)
}

func (s *EmployeeServiceSuite) TestDelete() {
	e := s.create("Jane", "jane@example.com")

	s.Require().NoError(s.svc.Delete(s.ctx, e.ID.String()))
	s.Equal([]string{"uploads/Jane.png"}, s.files.removed)

	err := s.svc.Delete(s.ctx, e.ID.String())
	s.ErrorIs(err, apperrors.ErrResourceNotFound)
	s.False(errors.Is(err, apperrors.ErrInvalidID))

	err = s.svc.Delete(s.ctx, "zzz")
	s.ErrorIs(err, apperrors.ErrInvalidID)
	s.False(errors.Is(err, apperrors.ErrResourceNotFound))
	s.Equal(1, s.recorder.calls["delete/"+metrics.OutcomeNotFound])
}

func (s *EmployeeServiceSuite) TestListSearchSortPage() {
	for i := 0; i < 12; i++ {
		s.create(fmt.Sprintf("Jane %02d", i), fmt.Sprintf("jane%02d@example.com", i))
	}
	s.create("Bob", "MaryJane@example.com")
	s.create("Alice", "alice@example.com")

	res, err := s.svc.List(s.ctx, ListParams{Search: "jane", SortBy: "f_Name", Order: "desc", Page: 2, Limit: 10})

	s.Require().NoError(err)
	s.Equal(int64(13), res.TotalCount)
	s.Equal(2, res.TotalPages)
	s.Equal(2, res.CurrentPage)
	s.Require().Len(res.Employees, 3)
	s.Equal("Jane 01", res.Employees[0].Name)
	s.Equal("Jane 00", res.Employees[1].Name)
	s.Equal("Bob", res.Employees[2].Name)
}

func (s *EmployeeServiceSuite) TestListDefaultsAndUnknownSort() {
	s.create("Zed", "z@example.com")
	s.create("Amy", "a@example.com")

	res, err := s.svc.List(s.ctx, ListParams{SortBy: "salary", Limit: 1000})

	s.Require().NoError(err)
	s.Equal(1, res.CurrentPage)
	s.Equal(1, res.TotalPages)
	s.Require().Len(res.Employees, 2)
	s.Equal("Zed", res.Employees[0].Name)

	res, err = s.svc.List(s.ctx, ListParams{Page: 5})
	s.Require().NoError(err)
	s.Empty(res.Employees)
	s.Equal(int64(2), res.TotalCount)
}

func (s *EmployeeServiceSuite) TestListExactEmail() {
	s.create("Jane", "jane@example.com")
	s.create("Janet", "janet@example.com")

	res, err := s.svc.List(s.ctx, ListParams{Email: "jane@example.com"})

	s.Require().NoError(err)
	s.Require().Len(res.Employees, 1)
	s.Equal("Jane", res.Employees[0].Name)
}
