package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/empdesk/internal/app/models"
	"github.com/yigit/empdesk/internal/domain"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report the wire key rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "emailaddr", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Email.MatchString(fl.Field().String())
	})
	mustRegister(v, "mobile", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Mobile.MatchString(fl.Field().String())
	})
	mustRegister(v, "courses", func(fl validator.FieldLevel) bool {
		list, ok := fl.Field().Interface().([]string)
		if !ok {
			return false
		}
		for _, c := range list {
			if !isCourse(c) {
				return false
			}
		}
		return true
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func isCourse(c string) bool {
	for _, allowed := range models.Courses {
		if c == allowed {
			return true
		}
	}
	return false
}

// EmployeeInput is the raw employee payload as received from the client.
// A nil text field was not submitted.
type EmployeeInput struct {
	Name        *string
	Email       *string
	Mobile      *string
	Designation *string
	Gender      *string
	Courses     CoursesValue
	// ImageRejected is the rule an upload failed before it was stored
	// (RuleFormat or RuleSize); empty when no upload was rejected.
	ImageRejected Rule
}

// employeeRecord is the normalized shape the field rules run against.
type employeeRecord struct {
	Name        string   `json:"f_Name" validate:"required"`
	Email       string   `json:"f_Email" validate:"required,emailaddr"`
	Mobile      string   `json:"f_Mobile" validate:"required,mobile"`
	Designation string   `json:"f_Designation" validate:"required"`
	Gender      string   `json:"f_Gender" validate:"required"`
	Courses     []string `json:"f_Course" validate:"min=1,courses"`
}

// Violation is one failed rule on one field.
type Violation struct {
	Field   string
	Rule    Rule
	Message string
}

// Violations lists every failed rule of a payload, in field order.
type Violations []Violation

// FieldErrors converts the violations into the field map carried by
// apperrors.ValidationError.
func (v Violations) FieldErrors() apperrors.FieldErrors {
	out := apperrors.FieldErrors{}
	for _, violation := range v {
		out.Add(violation.Field, violation.Message)
	}
	return out
}

// Err returns nil when there are no violations, otherwise a ValidationError.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperrors.NewValidationError("", v.FieldErrors())
}

// Has reports whether field failed rule.
func (v Violations) Has(field string, rule Rule) bool {
	for _, violation := range v {
		if violation.Field == field && violation.Rule == rule {
			return true
		}
	}
	return false
}

func (v *Violations) add(field string, rule Rule) {
	*v = append(*v, Violation{Field: field, Rule: rule, Message: Message(field, rule)})
}

// ValidateCreate normalizes a create payload and checks every field rule.
// The image is mandatory on create. The returned employee is only meaningful
// when no violations are reported.
func ValidateCreate(in EmployeeInput, image *domain.ImageDescriptor) (models.Employee, Violations) {
	rec := employeeRecord{
		Name:        text(in.Name),
		Email:       text(in.Email),
		Mobile:      text(in.Mobile),
		Designation: text(in.Designation),
		Gender:      text(in.Gender),
		Courses:     in.Courses.Normalize(),
	}

	violations := check(rec)
	switch {
	case in.ImageRejected != "":
		violations.add(FieldImage, in.ImageRejected)
	case image == nil:
		violations.add(FieldImage, RuleRequired)
	case !domain.IsAllowedImageType(image.MediaType):
		violations.add(FieldImage, RuleFormat)
	}

	e := toEmployee(rec)
	e.IsActive = true
	if image != nil {
		e.Image = image.Path
	}
	return e, violations
}

// NormalizePatch converts the submitted fields of an update into a patch.
// Absent fields stay nil; an image, when given, replaces the stored path.
// Only the image is checked here: field rules run against the merged record
// through ValidateMerged.
func NormalizePatch(in EmployeeInput, image *domain.ImageDescriptor) (models.EmployeePatch, Violations) {
	var (
		patch      models.EmployeePatch
		violations Violations
	)
	patch.Name = trimmed(in.Name)
	patch.Email = trimmed(in.Email)
	patch.Mobile = trimmed(in.Mobile)
	patch.Designation = trimmed(in.Designation)
	patch.Gender = trimmed(in.Gender)
	if in.Courses.Present() {
		patch.Courses = in.Courses.Normalize()
	}
	if in.ImageRejected != "" {
		violations.add(FieldImage, in.ImageRejected)
	} else if image != nil {
		if domain.IsAllowedImageType(image.MediaType) {
			path := image.Path
			patch.Image = &path
		} else {
			violations.add(FieldImage, RuleFormat)
		}
	}
	return patch, violations
}

// ValidateMerged re-checks a full record after a patch has been applied.
// The image stays optional so records without one can still be edited.
func ValidateMerged(e models.Employee) Violations {
	return check(employeeRecord{
		Name:        strings.TrimSpace(e.Name),
		Email:       strings.TrimSpace(e.Email),
		Mobile:      strings.TrimSpace(e.Mobile),
		Designation: strings.TrimSpace(e.Designation),
		Gender:      strings.TrimSpace(e.Gender),
		Courses:     e.Courses,
	})
}

func check(rec employeeRecord) Violations {
	var violations Violations
	err := validate.Struct(rec)
	if err == nil {
		return violations
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on a programming error in the rule set.
		panic(err)
	}
	for _, fe := range fieldErrs {
		violations.add(fe.Field(), ruleFor(fe.Tag()))
	}
	return violations
}

func ruleFor(tag string) Rule {
	switch tag {
	case "required", "min":
		return RuleRequired
	}
	return RuleFormat
}

func toEmployee(rec employeeRecord) models.Employee {
	return models.Employee{
		Name:        rec.Name,
		Email:       rec.Email,
		Mobile:      rec.Mobile,
		Designation: rec.Designation,
		Gender:      rec.Gender,
		Courses:     rec.Courses,
	}
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
