package types

import (
	"fmt"
	"time"
)

// OrgRecord is one row of an employee's organizational history. Rows are
// written by payroll processes and only read here.
type OrgRecord struct {
	EmployeeNumber int       `json:"employee_number"`
	EffectiveDate  time.Time `json:"effective_date"`
	Sequence       int64     `json:"sequence"`
	Status         string    `json:"status"`
	Org0           string    `json:"org0"`
	Org1           string    `json:"org1"`
	JobCategory    string    `json:"job_category"`
	Position       string    `json:"position"`
}

func (r OrgRecord) VersionDate() time.Time { return r.EffectiveDate }
func (r OrgRecord) VersionOrdinal() int64  { return r.Sequence }

func (r OrgRecord) NaturalKey() string {
	return fmt.Sprintf("%010d|%s|%020d|%s|%s|%s|%s|%s",
		r.EmployeeNumber, r.EffectiveDate.Format("2006-01-02"), r.Sequence,
		r.Status, r.Org0, r.Org1, r.JobCategory, r.Position)
}

type OrgFilter struct {
	Org0     string
	Org1     string
	Statuses []string
}

// RosterEntry is the current org record of one employee joined with the
// roster name columns.
type RosterEntry struct {
	OrgRecord
	FirstNames      string `json:"first_names"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
}
