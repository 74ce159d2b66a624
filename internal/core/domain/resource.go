package domain

// ResourceDefinition is the desired-state record for one object loaded from a
// template file. Payload is sent verbatim to the creation endpoint after the
// server-assigned fields are stripped and the ownership marker is stamped.
type ResourceDefinition struct {
	Kind        ResourceKind
	DisplayName string
	Payload     map[string]any
	SourceFile  string
}

// ExistingResource is one object currently present in the tenant, fetched
// fresh at the start of each reconciliation pass. Endpoint records which
// collection it was listed from so deletion targets the right one.
type ExistingResource struct {
	ID          string
	DisplayName string
	MarkerValue string
	State       string // conditional access policy state; empty for other kinds
	Endpoint    string
}
