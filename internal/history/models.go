package history

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a conversion run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusFetching   Status = "fetching"
	StatusExtracting Status = "extracting"
	StatusConverting Status = "converting"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusExtracting,
	StatusConverting,
	StatusCompleted,
	StatusFailed,
}

// ParseStatus maps a user-supplied string onto a known status.
func ParseStatus(value string) (Status, bool) {
	needle := strings.ToLower(strings.TrimSpace(value))
	for _, status := range allStatuses {
		if string(status) == needle {
			return status, true
		}
	}
	return "", false
}

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Item is one recorded conversion run.
type Item struct {
	ID           int64
	RunID        string
	PaperID      string
	SourceURL    string
	Title        string
	MainFile     string
	OutputPath   string
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Stats summarizes the store contents per status.
type Stats struct {
	Total    int
	ByStatus map[Status]int
}
