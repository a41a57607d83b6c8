package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/app/services"
	"github.com/yigit/empdesk/internal/domain"
	"github.com/yigit/empdesk/internal/middleware"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/filestorage"
	"github.com/yigit/empdesk/internal/pkg/helpers"
	"github.com/yigit/empdesk/internal/pkg/validation"
)

// formOverhead is the room left for text fields on top of the image limit.
const formOverhead int64 = 1 << 20

// EmployeeController handles employee related operations
type EmployeeController struct {
	employeeService *services.EmployeeService
	fileStorage     filestorage.ImageStorage
	maxUploadSize   int64
}

// NewEmployeeController creates a new EmployeeController
func NewEmployeeController(employeeService *services.EmployeeService, fileStorage filestorage.ImageStorage, maxUploadSize int64) *EmployeeController {
	return &EmployeeController{
		employeeService: employeeService,
		fileStorage:     fileStorage,
		maxUploadSize:   maxUploadSize,
	}
}

// CreateEmployee handles employee creation from a multipart form
// @Summary Create an employee
// @Tags employees
// @Accept multipart/form-data
// @Produce json
// @Param f_Name formData string true "Name"
// @Param f_Email formData string true "Email"
// @Param f_Mobile formData string true "10-digit mobile number"
// @Param f_Designation formData string true "Designation"
// @Param f_Gender formData string true "Gender"
// @Param f_Course formData string true "Courses, JSON array text or repeated values"
// @Param f_Image formData file true "PNG or JPEG image"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed or email already exists"
// @Security BearerAuth
// @Router /api/employees [post]
func (c *EmployeeController) CreateEmployee(ctx *gin.Context) {
	const fallback = "Error adding employee"

	in, fh, err := c.readEmployeeInput(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}
	image, err := c.saveImage(fh, &in)
	if err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}

	employee, err := c.employeeService.Create(ctx.Request.Context(), in, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}

	ctx.JSON(http.StatusCreated, dto.EmployeeResponse{Message: "Employee added successfully", Employee: employee})
}

// ListEmployees returns a filtered, sorted page of employees
// @Summary List employees
// @Tags employees
// @Produce json
// @Param search query string false "Case-insensitive match on name or email"
// @Param email query string false "Exact email"
// @Param sortBy query string false "f_Name, f_Email, f_Mobile, f_Designation, f_Gender, f_CreateDate or isActive"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.EmployeeListResponse
// @Security BearerAuth
// @Router /api/employees [get]
func (c *EmployeeController) ListEmployees(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx)

	result, err := c.employeeService.List(ctx.Request.Context(), services.ListParams{
		Search: ctx.Query("search"),
		Email:  ctx.Query("email"),
		SortBy: ctx.Query("sortBy"),
		Order:  ctx.DefaultQuery("order", "asc"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Error fetching employees")
		return
	}

	ctx.JSON(http.StatusOK, dto.EmployeeListResponse{
		Employees:   result.Employees,
		TotalCount:  result.TotalCount,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
	})
}

// GetEmployee returns a single employee
// @Summary Get an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid employee ID"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Security BearerAuth
// @Router /api/employees/{id} [get]
func (c *EmployeeController) GetEmployee(ctx *gin.Context) {
	employee, err := c.employeeService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Error fetching employee")
		return
	}

	ctx.JSON(http.StatusOK, dto.EmployeeResponse{Employee: employee})
}

// UpdateEmployee applies the submitted fields to an employee
// @Summary Update an employee
// @Tags employees
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid employee ID, validation failed or email already exists"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Security BearerAuth
// @Router /api/employees/{id} [put]
func (c *EmployeeController) UpdateEmployee(ctx *gin.Context) {
	const fallback = "Error updating employee"

	// Reject a malformed id before touching the upload.
	if _, err := services.ParseEmployeeID(ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}

	in, fh, err := c.readEmployeeInput(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}
	image, err := c.saveImage(fh, &in)
	if err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}

	employee, err := c.employeeService.Update(ctx.Request.Context(), ctx.Param("id"), in, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}

	ctx.JSON(http.StatusOK, dto.EmployeeResponse{Message: "Employee updated successfully", Employee: employee})
}

// SetEmployeeActive toggles an employee's active flag
// @Summary Activate or deactivate an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param request body dto.SetActiveRequest true "New status"
// @Success 200 {object} dto.EmployeeResponse
// @Security BearerAuth
// @Router /api/employees/{id}/active [put]
func (c *EmployeeController) SetEmployeeActive(ctx *gin.Context) {
	const fallback = "Error updating status"

	var req dto.SetActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		fields := apperrors.FieldErrors{}
		fields.Add("isActive", "isActive is required")
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("", fields), fallback)
		return
	}

	employee, err := c.employeeService.SetActive(ctx.Request.Context(), ctx.Param("id"), *req.IsActive)
	if err != nil {
		middleware.HandleAPIError(ctx, err, fallback)
		return
	}

	ctx.JSON(http.StatusOK, dto.EmployeeResponse{Message: "Employee status updated successfully", Employee: employee})
}

// DeleteEmployee removes an employee
// @Summary Delete an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid employee ID"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Security BearerAuth
// @Router /api/employees/{id} [delete]
func (c *EmployeeController) DeleteEmployee(ctx *gin.Context) {
	if err := c.employeeService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, "Error deleting employee")
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Employee deleted successfully"})
}

// readEmployeeInput decodes the employee fields from a multipart, urlencoded
// or JSON body. The image file header is nil when none was sent.
func (c *EmployeeController) readEmployeeInput(ctx *gin.Context) (validation.EmployeeInput, *multipart.FileHeader, error) {
	if c.maxUploadSize > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadSize+formOverhead)
	}

	if ctx.ContentType() == binding.MIMEJSON {
		in, err := decodeEmployeeJSON(ctx)
		return in, nil, err
	}

	var values url.Values
	var fh *multipart.FileHeader
	if ctx.ContentType() == binding.MIMEMultipartPOSTForm {
		form, err := ctx.MultipartForm()
		if err != nil {
			return validation.EmployeeInput{}, nil, formError(err)
		}
		values = form.Value
		if files := form.File[validation.FieldImage]; len(files) > 0 {
			fh = files[0]
		}
	} else {
		if err := ctx.Request.ParseForm(); err != nil {
			return validation.EmployeeInput{}, nil, formError(err)
		}
		values = ctx.Request.PostForm
	}

	return inputFromValues(values), fh, nil
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return filestorage.ErrFileTooLarge
	}
	return apperrors.NewValidationError("Invalid form data", nil)
}

func inputFromValues(values url.Values) validation.EmployeeInput {
	field := func(key string) *string {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return nil
		}
		s := v[0]
		return &s
	}

	courses := values[validation.FieldCourse]
	if len(courses) == 0 {
		courses = values[validation.FieldCourse+"[]"]
	}

	return validation.EmployeeInput{
		Name:        field(validation.FieldName),
		Email:       field(validation.FieldEmail),
		Mobile:      field(validation.FieldMobile),
		Designation: field(validation.FieldDesignation),
		Gender:      field(validation.FieldGender),
		Courses:     validation.CoursesFromForm(courses),
	}
}

// employeeJSON accepts mobile as text or number and courses as any JSON value.
type employeeJSON struct {
	Name        *string         `json:"f_Name"`
	Email       *string         `json:"f_Email"`
	Mobile      json.RawMessage `json:"f_Mobile"`
	Designation *string         `json:"f_Designation"`
	Gender      *string         `json:"f_Gender"`
	Course      json.RawMessage `json:"f_Course"`
}

func decodeEmployeeJSON(ctx *gin.Context) (validation.EmployeeInput, error) {
	var body employeeJSON
	if err := json.NewDecoder(ctx.Request.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.EmployeeInput{}, filestorage.ErrFileTooLarge
		}
		return validation.EmployeeInput{}, apperrors.NewValidationError("Invalid JSON body", nil)
	}

	in := validation.EmployeeInput{
		Name:        body.Name,
		Email:       body.Email,
		Designation: body.Designation,
		Gender:      body.Gender,
		Mobile:      rawText(body.Mobile),
	}

	raw := bytes.TrimSpace(body.Course)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			in.Courses = validation.SequenceCourses(list)
		} else {
			in.Courses = validation.EncodedCourses(string(raw))
		}
	default:
		if s := rawText(raw); s != nil {
			in.Courses = validation.CoursesFromForm([]string{*s})
		}
	}
	return in, nil
}

// rawText renders a JSON scalar as text: strings are unquoted, numbers kept
// verbatim. Absent or null yields nil.
func rawText(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	s = strings.TrimSpace(string(raw))
	return &s
}

// saveImage stores the upload. An upload storage refuses for its type or size
// is recorded on in so it is reported together with the other field errors.
func (c *EmployeeController) saveImage(fh *multipart.FileHeader, in *validation.EmployeeInput) (*domain.ImageDescriptor, error) {
	if fh == nil {
		return nil, nil
	}
	desc, err := c.fileStorage.SaveImage(fh)
	switch {
	case errors.Is(err, filestorage.ErrUnsupportedMediaType):
		in.ImageRejected = validation.RuleFormat
		return nil, nil
	case errors.Is(err, filestorage.ErrFileTooLarge):
		in.ImageRejected = validation.RuleSize
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &desc, nil
}
