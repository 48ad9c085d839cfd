package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	// ErrFull signals that the queue rejected a job due to backpressure.
	ErrFull = errors.New("upload queue full")
)
