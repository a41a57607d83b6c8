// Package services holds the business workflows behind the HTTP handlers.
//
// Services defined in this package:
//   - EmployeeService: validation, duplicate-email check and persistence of employee records
//   - AuthService: administrator registration, login and logout
package services
