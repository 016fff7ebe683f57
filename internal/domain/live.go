package domain

import "time"

// LiveStatus is the current on-air snapshot shown on the public site and
// pushed to connected listeners.
type LiveStatus struct {
	Program   string    `json:"program"`
	Host      string    `json:"host"`
	Track     string    `json:"track"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
