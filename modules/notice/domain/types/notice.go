package types

import (
	"time"

	"github.com/google/uuid"
)

type Notice struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}

// CurrentAt reports whether the notice is shown on day.
func (n Notice) CurrentAt(day time.Time) bool {
	if !n.Active || day.Before(n.ValidFrom) {
		return false
	}
	return n.ValidTo == nil || !day.After(*n.ValidTo)
}

type NoticeInput struct {
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	ValidFrom string  `json:"valid_from"`
	ValidTo   *string `json:"valid_to"`
	Active    *bool   `json:"active"`
}
