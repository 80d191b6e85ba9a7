package model

import "time"

// OutcomeStatus is the per-question result of a reconciliation run.
type OutcomeStatus string

const (
	OutcomeCreated  OutcomeStatus = "created"
	OutcomeUpdated  OutcomeStatus = "updated"
	OutcomeUpToDate OutcomeStatus = "up-to-date"
	OutcomeMerged   OutcomeStatus = "merged"
)

// OutcomeEntry is one line of the optional audit list. Target is the name
// of the record written, or the parent question for merged answers.
type OutcomeEntry struct {
	Question string        `json:"question"`
	Target   string        `json:"target"`
	Status   OutcomeStatus `json:"status"`
}

// SyncResult aggregates the outcome of one reconciliation run.
type SyncResult struct {
	ContainerID string         `json:"containerId" bson:"container_id"`
	Created     int            `json:"created" bson:"created"`
	Updated     int            `json:"updated" bson:"updated"`
	UpToDate    int            `json:"upToDate" bson:"up_to_date"`
	Merged      int            `json:"merged" bson:"merged"`
	Deactivated int            `json:"deactivated" bson:"deactivated"`
	Simulated   bool           `json:"simulated" bson:"simulated"`
	RanAt       time.Time      `json:"ranAt" bson:"ran_at"`
	Entries     []OutcomeEntry `json:"entries,omitempty" bson:"entries,omitempty"`
}
