// Package model contains domain models passed between layers.
package model

import "time"

// UploadJob carries one accepted match upload from the HTTP layer to the
// extraction workers. Raw holds the submitted payload verbatim; it is
// persisted before the job is enqueued and never mutated afterwards.
type UploadJob struct {
	MatchID    string    // uuid assigned at ingestion
	PlayerID   string    // owner of the match
	Raw        []byte    // raw match record bytes, stored verbatim
	ReceivedAt time.Time // upload timestamp
}
