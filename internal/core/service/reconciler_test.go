package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/errors"
	"github.com/intunekit/hydrator/internal/log"
	"github.com/intunekit/hydrator/internal/ownership"
)

const testMarker = "Imported by Kit"

func testGroupConfig() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindGroup,
		Endpoints:      []string{"/v1.0/groups"},
		MarkerField:    "description",
		StripFields:    []string{"securityIdentifier"},
		TemplateSubdir: "groups",
	}
}

func testCAConfig() domain.KindConfig {
	return domain.KindConfig{
		Kind:        domain.KindConditionalAccessPolicy,
		Endpoints:   []string{"/v1.0/identity/conditionalAccess/policies"},
		MarkerField: "description",
		PrepareCreate: func(body map[string]any) {
			body["state"] = "disabled"
		},
		DeleteGate: func(existing domain.ExistingResource) bool {
			return existing.State == "disabled"
		},
		TemplateSubdir: "conditionalaccess",
	}
}

func newTestReconciler(g *fakeGraph) *Reconciler {
	return NewReconciler(g, ownership.NewChecker(testMarker), nil, log.NewNop())
}

func groupDef(name string) domain.ResourceDefinition {
	return domain.ResourceDefinition{
		Kind:        domain.KindGroup,
		DisplayName: name,
		Payload: map[string]any{
			"displayName":    name,
			"membershipRule": `(device.deviceOSType -eq "Windows")`,
		},
	}
}

func TestApply_FreshCreate(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	records := r.Apply(context.Background(), testGroupConfig(),
		[]domain.ResourceDefinition{groupDef("All Windows Devices")},
		map[string]domain.ExistingResource{}, ReconcileOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeCreated, records[0].Outcome)
	assert.Equal(t, "All Windows Devices", records[0].Name)
	assert.Equal(t, "created-1", records[0].ID)

	calls := g.mutatingCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, "/v1.0/groups", calls[0].Endpoint)
}

func TestApply_SkipExisting(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"All Windows Devices": {ID: "g1", DisplayName: "All Windows Devices", MarkerValue: testMarker, Endpoint: "/v1.0/groups"},
	}

	records := r.Apply(context.Background(), testGroupConfig(),
		[]domain.ResourceDefinition{groupDef("All Windows Devices")},
		existing, ReconcileOptions{ForceUpdate: false})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeSkipped, records[0].Outcome)
	assert.Equal(t, "g1", records[0].ID)
	assert.Empty(t, g.mutatingCalls())
}

func TestApply_ForceUpdate_DeleteThenCreate(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"All Windows Devices": {ID: "g1", DisplayName: "All Windows Devices", MarkerValue: testMarker, Endpoint: "/v1.0/groups"},
	}

	records := r.Apply(context.Background(), testGroupConfig(),
		[]domain.ResourceDefinition{groupDef("All Windows Devices")},
		existing, ReconcileOptions{ForceUpdate: true})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeUpdated, records[0].Outcome)

	calls := g.mutatingCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "DELETE", calls[0].Method)
	assert.Equal(t, "g1", calls[0].ID)
	assert.Equal(t, "POST", calls[1].Method)
}

func TestApply_ForceUpdate_DeleteFails(t *testing.T) {
	g := newFakeGraph()
	g.failDelete["g1"] = errors.New(errors.CodeGraphAPIError, "409 conflict")
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"All Windows Devices": {ID: "g1", DisplayName: "All Windows Devices", MarkerValue: testMarker, Endpoint: "/v1.0/groups"},
	}

	records := r.Apply(context.Background(), testGroupConfig(),
		[]domain.ResourceDefinition{groupDef("All Windows Devices")},
		existing, ReconcileOptions{ForceUpdate: true})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeFailed, records[0].Outcome)
	assert.Contains(t, records[0].Detail, "replace aborted")
	// No POST after a failed delete.
	require.Len(t, g.mutatingCalls(), 1)
}

func TestApply_ForceUpdate_RecreateFailsAfterDelete(t *testing.T) {
	g := newFakeGraph()
	g.failCreate["All Windows Devices"] = errors.New(errors.CodeGraphAPIError, "400 bad payload")
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"All Windows Devices": {ID: "g1", DisplayName: "All Windows Devices", MarkerValue: testMarker, Endpoint: "/v1.0/groups"},
	}

	records := r.Apply(context.Background(), testGroupConfig(),
		[]domain.ResourceDefinition{groupDef("All Windows Devices")},
		existing, ReconcileOptions{ForceUpdate: true})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeFailed, records[0].Outcome)
	// The report must show the object is now absent, not merely "not updated".
	assert.Contains(t, records[0].Detail, "absent")
	assert.Contains(t, records[0].Detail, "g1")
}

func TestApply_DryRunIssuesNoMutatingCalls(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"Existing Group": {ID: "g1", DisplayName: "Existing Group", Endpoint: "/v1.0/groups"},
	}
	defs := []domain.ResourceDefinition{groupDef("New Group"), groupDef("Existing Group")}

	t.Run("without force", func(t *testing.T) {
		records := r.Apply(context.Background(), testGroupConfig(), defs, existing, ReconcileOptions{DryRun: true})
		require.Len(t, records, 2)
		assert.Equal(t, domain.OutcomeWouldCreate, records[0].Outcome)
		assert.Equal(t, domain.OutcomeSkipped, records[1].Outcome)
		assert.Empty(t, g.mutatingCalls())
	})

	t.Run("with force", func(t *testing.T) {
		records := r.Apply(context.Background(), testGroupConfig(), defs, existing,
			ReconcileOptions{DryRun: true, ForceUpdate: true})
		require.Len(t, records, 2)
		assert.Equal(t, domain.OutcomeWouldCreate, records[0].Outcome)
		assert.Equal(t, domain.OutcomeWouldUpdate, records[1].Outcome)
		assert.Empty(t, g.mutatingCalls())
	})
}

func TestApply_Idempotence(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)
	cfg := testGroupConfig()
	defs := []domain.ResourceDefinition{groupDef("G1"), groupDef("G2")}

	existing := map[string]domain.ExistingResource{}
	first := r.Apply(context.Background(), cfg, defs, existing, ReconcileOptions{})
	for _, rec := range first {
		assert.Equal(t, domain.OutcomeCreated, rec.Outcome)
	}

	// Second run against the state the first run left behind.
	second := r.Apply(context.Background(), cfg, defs, existing, ReconcileOptions{})
	for _, rec := range second {
		assert.Equal(t, domain.OutcomeSkipped, rec.Outcome)
	}

	// Exactly two objects created in total.
	posts := 0
	for _, c := range g.mutatingCalls() {
		if c.Method == "POST" {
			posts++
		}
	}
	assert.Equal(t, 2, posts)
}

func TestApply_DuplicateTemplateNames_FirstWriterWins(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	defs := []domain.ResourceDefinition{groupDef("Same Name"), groupDef("Same Name")}
	records := r.Apply(context.Background(), testGroupConfig(), defs,
		map[string]domain.ExistingResource{}, ReconcileOptions{})

	require.Len(t, records, 2)
	assert.Equal(t, domain.OutcomeCreated, records[0].Outcome)
	assert.Equal(t, domain.OutcomeSkipped, records[1].Outcome)
	assert.Equal(t, records[0].ID, records[1].ID)
}

func TestApply_CreateBodyShape(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	def := domain.ResourceDefinition{
		Kind:        domain.KindGroup,
		DisplayName: "Shaped",
		Payload: map[string]any{
			"displayName":        "Shaped",
			"description":        "baseline group",
			"id":                 "stale-id",
			"createdDateTime":    "2024-01-01T00:00:00Z",
			"securityIdentifier": "S-1-5-21",
			"membershipRule":     "rule",
		},
	}

	r.Apply(context.Background(), testGroupConfig(), []domain.ResourceDefinition{def},
		map[string]domain.ExistingResource{}, ReconcileOptions{})

	calls := g.mutatingCalls()
	require.Len(t, calls, 1)

	want := map[string]any{
		"displayName":    "Shaped",
		"description":    "baseline group - " + testMarker,
		"membershipRule": "rule",
	}
	if diff := cmp.Diff(want, calls[0].Body); diff != "" {
		t.Errorf("create body mismatch (-want +got):\n%s", diff)
	}

	// The template payload itself is untouched.
	assert.Equal(t, "baseline group", def.Payload["description"])
	assert.Contains(t, def.Payload, "id")
}

func TestApply_ConditionalAccessForcedDisabled(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	def := domain.ResourceDefinition{
		Kind:        domain.KindConditionalAccessPolicy,
		DisplayName: "Block legacy auth",
		Payload: map[string]any{
			"displayName": "Block legacy auth",
			"state":       "enabled",
			"conditions":  map[string]any{},
		},
	}

	r.Apply(context.Background(), testCAConfig(), []domain.ResourceDefinition{def},
		map[string]domain.ExistingResource{}, ReconcileOptions{})

	calls := g.mutatingCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "disabled", calls[0].Body["state"])
}

func TestRemove_OnlyOwnedObjectsDeleted(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"Kit Group":      {ID: "g1", DisplayName: "Kit Group", MarkerValue: "x - " + testMarker, Endpoint: "/v1.0/groups"},
		"Foreign Group":  {ID: "g2", DisplayName: "Foreign Group", MarkerValue: "hand made", Endpoint: "/v1.0/groups"},
		"Unmarked Group": {ID: "g3", DisplayName: "Unmarked Group", MarkerValue: "", Endpoint: "/v1.0/groups"},
	}

	records := r.Remove(context.Background(), testGroupConfig(), existing, ReconcileOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeDeleted, records[0].Outcome)
	assert.Equal(t, "Kit Group", records[0].Name)

	calls := g.mutatingCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "g1", calls[0].ID)
}

func TestRemove_UnownedEnabledCAPolicy_NoRecordNoCall(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"Finance CA Policy": {ID: "ca1", DisplayName: "Finance CA Policy", MarkerValue: "", State: "enabled"},
	}

	records := r.Remove(context.Background(), testCAConfig(), existing, ReconcileOptions{})

	assert.Empty(t, records)
	assert.Empty(t, g.mutatingCalls())
}

func TestRemove_OwnedButEnabledCAPolicy_NeverDeleted(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"Kit CA Enabled":  {ID: "ca1", DisplayName: "Kit CA Enabled", MarkerValue: testMarker, State: "enabled"},
		"Kit CA Disabled": {ID: "ca2", DisplayName: "Kit CA Disabled", MarkerValue: testMarker, State: "disabled", Endpoint: "/v1.0/identity/conditionalAccess/policies"},
	}

	records := r.Remove(context.Background(), testCAConfig(), existing, ReconcileOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, "Kit CA Disabled", records[0].Name)
	assert.Equal(t, domain.OutcomeDeleted, records[0].Outcome)

	calls := g.mutatingCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ca2", calls[0].ID)
}

func TestRemove_DryRun(t *testing.T) {
	g := newFakeGraph()
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"Kit Group": {ID: "g1", DisplayName: "Kit Group", MarkerValue: testMarker, Endpoint: "/v1.0/groups"},
	}

	records := r.Remove(context.Background(), testGroupConfig(), existing, ReconcileOptions{DryRun: true})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeWouldDelete, records[0].Outcome)
	assert.Empty(t, g.mutatingCalls())
}

func TestRemove_DeleteFailureRecorded(t *testing.T) {
	g := newFakeGraph()
	g.failDelete["g1"] = errors.New(errors.CodeGraphAPIError, "403 forbidden")
	r := newTestReconciler(g)

	existing := map[string]domain.ExistingResource{
		"Kit Group": {ID: "g1", DisplayName: "Kit Group", MarkerValue: testMarker, Endpoint: "/v1.0/groups"},
	}

	records := r.Remove(context.Background(), testGroupConfig(), existing, ReconcileOptions{})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeFailed, records[0].Outcome)
	assert.Contains(t, records[0].Detail, "403")
}
