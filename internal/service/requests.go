package service

import "time"

// TimelineRequest selects a system's timeline.
type TimelineRequest struct {
	SerialNumber string
	StartDate    time.Time // inclusive; zero means no lower bound
	EndDate      time.Time // inclusive; zero means no upper bound
	// ReferenceTime ages open workflows; zero means now.
	ReferenceTime time.Time
}

// IngestResult summarizes an accepted message.
type IngestResult struct {
	SerialNumber string `json:"serialNumber"`
	Modules      int    `json:"modules"`
	Events       int    `json:"events"`
}
