package types

import "time"

const (
	StatusActive  = "A"
	StatusOnLeave = "L"
	StatusBaja    = "B"
)

// DefaultStatuses is the status filter applied when a caller supplies none.
var DefaultStatuses = []string{StatusActive, StatusOnLeave}

type Afiliado struct {
	EmployeeNumber  int       `json:"employee_number"`
	FirstNames      string    `json:"first_names"`
	PaternalSurname string    `json:"paternal_surname"`
	MaternalSurname string    `json:"maternal_surname"`
	RFC             string    `json:"rfc"`
	CURP            string    `json:"curp"`
	Status          string    `json:"status"`
	HireDate        time.Time `json:"hire_date"`
}

type AfiliadoInput struct {
	EmployeeNumber  int    `json:"employee_number"`
	FirstNames      string `json:"first_names"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
	RFC             string `json:"rfc"`
	CURP            string `json:"curp"`
	Status          string `json:"status"`
	HireDate        string `json:"hire_date"`
}

type AfiliadoFilter struct {
	Query  string
	Limit  int
	Offset int
}
