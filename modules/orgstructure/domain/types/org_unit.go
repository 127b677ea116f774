package types

// OrgUnit is a first-level organizational unit (Organica0).
type OrgUnit struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type OrgUnitInput struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}
