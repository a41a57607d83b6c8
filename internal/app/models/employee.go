package models

import (
	"time"

	"github.com/google/uuid"
)

// Designation values offered by the admin UI. The store does not enforce them.
const (
	DesignationManager   = "Manager"
	DesignationDeveloper = "Developer"
	DesignationDesigner  = "Designer"
)

// Gender values.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Course values an employee may hold.
const (
	CourseMCA = "MCA"
	CourseBCA = "BCA"
	CourseBSC = "BSC"
)

// Courses lists the allowed course values in display order.
var Courses = []string{CourseMCA, CourseBCA, CourseBSC}

// Employee defines the employee model based on the 'employees' table.
// JSON keys follow the form field names the admin UI submits.
type Employee struct {
	ID          uuid.UUID `json:"_id" db:"id"`
	Name        string    `json:"f_Name" db:"name"`
	Email       string    `json:"f_Email" db:"email"`
	Mobile      string    `json:"f_Mobile" db:"mobile"`
	Designation string    `json:"f_Designation" db:"designation"`
	Gender      string    `json:"f_Gender" db:"gender"`
	Courses     []string  `json:"f_Course" db:"courses"`
	Image       string    `json:"f_Image" db:"image"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"f_CreateDate" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// EmployeePatch holds the columns of a partial update. Nil fields are left untouched.
type EmployeePatch struct {
	Name        *string
	Email       *string
	Mobile      *string
	Designation *string
	Gender      *string
	Courses     []string
	Image       *string
	IsActive    *bool
}

// Apply returns a copy of e with the patch applied.
func (p EmployeePatch) Apply(e Employee) Employee {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Mobile != nil {
		e.Mobile = *p.Mobile
	}
	if p.Designation != nil {
		e.Designation = *p.Designation
	}
	if p.Gender != nil {
		e.Gender = *p.Gender
	}
	if p.Courses != nil {
		e.Courses = append([]string(nil), p.Courses...)
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	if p.IsActive != nil {
		e.IsActive = *p.IsActive
	}
	return e
}

// SortField maps an accepted sortBy key to its column.
type SortField string

// Sort keys accepted by the employee list.
const (
	SortByName        SortField = "f_Name"
	SortByEmail       SortField = "f_Email"
	SortByMobile      SortField = "f_Mobile"
	SortByDesignation SortField = "f_Designation"
	SortByGender      SortField = "f_Gender"
	SortByCreateDate  SortField = "f_CreateDate"
	SortByActive      SortField = "isActive"
)

// SortColumns maps sort keys to employees table columns.
var SortColumns = map[SortField]string{
	SortByName:        "name",
	SortByEmail:       "email",
	SortByMobile:      "mobile",
	SortByDesignation: "designation",
	SortByGender:      "gender",
	SortByCreateDate:  "created_at",
	SortByActive:      "is_active",
}

// EmployeeFilter narrows, orders and pages an employee listing.
type EmployeeFilter struct {
	// Search is a case-insensitive substring matched against name OR email.
	Search string
	// Email, when set, must equal the stored email exactly.
	Email string
	// SortBy empty means store natural order.
	SortBy SortField
	Desc   bool
	Offset int
	Limit  int
}
