package types

type PostalCode struct {
	Code         string `json:"code"`
	State        string `json:"state"`
	Municipality string `json:"municipality"`
}

// Colony is a neighborhood (colonia) inside a postal code.
type Colony struct {
	ID         int    `json:"id"`
	PostalCode string `json:"postal_code"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
}

type ColonyInput struct {
	PostalCode string `json:"postal_code"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
}

type PostalCodeFilter struct {
	State string
	Limit int
}
