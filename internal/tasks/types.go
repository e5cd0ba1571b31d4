package tasks

import "time"

// Task types
const (
	TaskTypeImageRelease = "image:release"
)

// Queue names
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Task timeouts
const (
	TimeoutShort  = 30 * time.Second
	TimeoutMedium = 2 * time.Minute
)

// Retry limits
const (
	RetryMax     = 10
	RetryDefault = 3
)

// ImageReleaseTask asks a worker to delete an object that no content row
// references any more.
type ImageReleaseTask struct {
	URL string `json:"url"`
}
