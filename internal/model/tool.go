package model

import "time"

// A Tool is a registered workshop script. Entries are immutable once written.
type Tool struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Model       string    `json:"model"`
	URL         string    `json:"url"`
	UploadedAt  time.Time `json:"uploadedAt"`
}
