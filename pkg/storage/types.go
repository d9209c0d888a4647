package storage

import "time"

// LoadRun is one attempt to fetch and reshape the source spreadsheet.
type LoadRun struct {
	LoadID    string        `json:"load_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	SourceURL string        `json:"source_url"`
	ExportURL string        `json:"export_url"`
	RawRows   int           `json:"raw_rows"`
	Events    int           `json:"events"`
	Error     string        `json:"error,omitempty"`
}

// Status is "ok" for successful loads and "error" otherwise.
func (r LoadRun) Status() string {
	if r.Error != "" {
		return "error"
	}
	return "ok"
}
