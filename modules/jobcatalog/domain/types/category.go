package types

// JobCategory is an entry of the job-category catalog (CategoriaPuestoOrg).
type JobCategory struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Active bool   `json:"active"`
}

type JobCategoryInput struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Active *bool  `json:"active"`
}
