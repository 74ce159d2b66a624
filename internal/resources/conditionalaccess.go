package resources

import "github.com/intunekit/hydrator/internal/core/domain"

// Conditional Access policies are a live security control, so the kind gets
// two safeguards the others do not: every created policy is forced to
// disabled, and deletion additionally requires the existing policy to be
// disabled even when it carries the ownership marker.
func ConditionalAccessPolicyKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindConditionalAccessPolicy,
		Endpoints:      []string{"/v1.0/identity/conditionalAccess/policies"},
		RequiredFields: []string{"conditions"},
		MarkerField:    "description",
		StripFields:    []string{"modifiedDateTime"},
		PrepareCreate: func(body map[string]any) {
			body["state"] = "disabled"
		},
		DeleteGate: func(existing domain.ExistingResource) bool {
			return existing.State == "disabled"
		},
		TemplateSubdir: "conditionalaccess",
		WrapperKeys:    []string{"conditionalAccessPolicies", "policies"},
	}
}
