package domain

import "time"

// Employee is the task application's own record of a person. It is joined to
// the issuer's User only by Username.
type Employee struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Username    string    `json:"username"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Specialty   string    `json:"specialty"`
	HireDate    time.Time `json:"hireDate"`
	Avatar      []byte    `json:"-"`
	AvatarType  string    `json:"-"`
	Version     int       `json:"version"`
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// AgeAt returns the employee's age in whole years at the given instant.
func (e *Employee) AgeAt(now time.Time) int {
	if e.DateOfBirth.IsZero() {
		return 0
	}
	age := now.Year() - e.DateOfBirth.Year()
	if now.Month() < e.DateOfBirth.Month() ||
		(now.Month() == e.DateOfBirth.Month() && now.Day() < e.DateOfBirth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// HasAvatar reports whether an uploaded image is stored.
func (e *Employee) HasAvatar() bool {
	return len(e.Avatar) > 0 && e.AvatarType != ""
}

// EmployeeFilter narrows an employee listing. Empty fields do not filter.
type EmployeeFilter struct {
	Name      string
	Specialty string
}
