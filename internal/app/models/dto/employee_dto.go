package dto

import "github.com/yigit/empdesk/internal/app/models"

// EmployeeResponse wraps a single employee, with a message on writes
type EmployeeResponse struct {
	Message  string           `json:"message,omitempty"`
	Employee *models.Employee `json:"employee"`
}

// EmployeeListResponse is one page of the employee list
type EmployeeListResponse struct {
	Employees   []*models.Employee `json:"employees"`
	TotalCount  int64              `json:"totalCount"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
}

// SetActiveRequest toggles an employee's active flag
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
