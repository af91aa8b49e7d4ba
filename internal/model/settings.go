package model

import "time"

// Setting is one key/value record. Session data, AI settings and the store
// schema version all share this layout on both backends.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
