package domain

import "time"

// RunContext carries the per-invocation settings through every component.
// There is deliberately no package-level run state anywhere in this module.
type RunContext struct {
	RunID          string
	TenantID       string
	DryRun         bool
	ForceUpdate    bool
	RemoveExisting bool
	Marker         string
	StartedAt      time.Time
}
