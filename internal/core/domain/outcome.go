package domain

import "time"

type Outcome string

const (
	OutcomeCreated Outcome = "Created"
	OutcomeUpdated Outcome = "Updated"
	OutcomeSkipped Outcome = "Skipped"
	OutcomeDeleted Outcome = "Deleted"
	OutcomeFailed  Outcome = "Failed"

	OutcomeWouldCreate Outcome = "WouldCreate"
	OutcomeWouldUpdate Outcome = "WouldUpdate"
	OutcomeWouldDelete Outcome = "WouldDelete"
)

// IsDryRun reports whether the outcome is one of the Would* preview variants.
func (o Outcome) IsDryRun() bool {
	switch o {
	case OutcomeWouldCreate, OutcomeWouldUpdate, OutcomeWouldDelete:
		return true
	}
	return false
}

// ResultRecord is produced exactly once per definition (create path) or per
// matched existing object (delete path). The run's record list is append-only
// and is the sole input to the report renderers.
type ResultRecord struct {
	Timestamp time.Time
	Kind      ResourceKind
	Name      string
	Outcome   Outcome
	ID        string
	Detail    string
}

type Summary struct {
	Total     int
	ByOutcome map[Outcome]int
	ByKind    map[ResourceKind]map[Outcome]int
}
