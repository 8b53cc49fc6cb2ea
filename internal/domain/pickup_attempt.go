package domain

import "time"

// PickupAttemptStatus enumerates states of one collection attempt.
type PickupAttemptStatus string

const (
	PickupAttemptScheduled PickupAttemptStatus = "SCHEDULED"
	PickupAttemptCompleted PickupAttemptStatus = "COMPLETED"
	PickupAttemptFailed    PickupAttemptStatus = "FAILED"
)

// PickupAttempt is one entry in the append-only collection ledger.
// Attempts belong to exactly one complaint and are never deleted;
// a closed (completed/failed) attempt is never mutated again.
type PickupAttempt struct {
	ID            string
	ComplaintID   string
	AttemptNumber int
	ScheduledDate time.Time
	Status        PickupAttemptStatus
	FailureReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
