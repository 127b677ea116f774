package types

import "time"

type LogFile struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	Active   bool      `json:"active"`
}

type LogTail struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
	// Truncated is set when the file holds more lines than were returned.
	Truncated bool `json:"truncated"`
}

type PruneRequest struct {
	OlderThanDays int `json:"older_than_days"`
}

type PruneResult struct {
	Deleted []string `json:"deleted"`
}
