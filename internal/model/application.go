package model

import "time"

// Application represents one tracked job application belonging to a user.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Application struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Company        string    `json:"company"`
	JobDescription string    `json:"jobdescription"`
	Filename       string    `json:"filename"`
	Timestamp      time.Time `json:"timestamp"`
	DownloadLink   string    `json:"download_link"`
	ViewLink       string    `json:"view_link"`
	Status         string    `json:"status"`
}

// StatusApplied is the default status assigned to newly created applications.
const StatusApplied = "applied"
