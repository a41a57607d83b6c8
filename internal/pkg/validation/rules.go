package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// EmailPattern is deliberately loose: two non-blank parts around a single
	// @ with a dot in the domain.
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	// MobilePattern accepts exactly ten ASCII digits.
	MobilePattern = `^[0-9]{10}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email  *regexp.Regexp
	Mobile *regexp.Regexp
}{
	Email:  regexp.MustCompile(EmailPattern),
	Mobile: regexp.MustCompile(MobilePattern),
}

// Rule names reported with each violation.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleFormat   Rule = "format"
	RuleSize     Rule = "size"
)

// Wire field names, shared by the HTTP form and the JSON representation.
const (
	FieldName        = "f_Name"
	FieldEmail       = "f_Email"
	FieldMobile      = "f_Mobile"
	FieldDesignation = "f_Designation"
	FieldGender      = "f_Gender"
	FieldCourse      = "f_Course"
	FieldImage       = "f_Image"
)

var messages = map[string]map[Rule]string{
	FieldName:        {RuleRequired: "Name is required"},
	FieldEmail:       {RuleRequired: "Email is required", RuleFormat: "Email is not valid"},
	FieldMobile:      {RuleRequired: "Mobile is required", RuleFormat: "Mobile must be a 10-digit number"},
	FieldDesignation: {RuleRequired: "Designation is required"},
	FieldGender:      {RuleRequired: "Gender is required"},
	FieldCourse:      {RuleRequired: "At least one course is required", RuleFormat: "Courses must be chosen from MCA, BCA, BSC"},
	FieldImage: {
		RuleRequired: "Image is required",
		RuleFormat:   "Only PNG and JPG images are allowed.",
		RuleSize:     "Image exceeds the maximum upload size",
	},
}

// Message returns the user-facing text for a failed rule on field.
func Message(field string, rule Rule) string {
	if m, ok := messages[field][rule]; ok {
		return m
	}
	if rule == RuleRequired {
		return field + " is required"
	}
	return field + " is not valid"
}
