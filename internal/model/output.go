package model

import "time"

// An Output is an image produced by running a tool. ToolURL is a denormalized
// copy of the referenced tool's url, taken at creation time.
type Output struct {
	ID        string    `json:"id"`
	ToolID    string    `json:"toolId"`
	ToolURL   string    `json:"toolUrl"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
