package resources

import "github.com/intunekit/hydrator/internal/core/domain"

const (
	classicComplianceEndpoint = "/beta/deviceManagement/deviceCompliancePolicies"
	// Linux and other settings-catalog compliance policies live in a separate
	// collection keyed by "name" instead of "displayName".
	catalogComplianceEndpoint = "/beta/deviceManagement/compliancePolicies"
)

func CompliancePolicyKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:       domain.KindCompliancePolicy,
		Endpoints:  []string{classicComplianceEndpoint, catalogComplianceEndpoint},
		NameFields: []string{"displayName", "name"},
		SelectCreateEndpoint: func(payload map[string]any) string {
			if _, classic := payload["@odata.type"]; classic {
				return classicComplianceEndpoint
			}
			return catalogComplianceEndpoint
		},
		MarkerField: "description",
		StripFields: []string{
			"version",
			"creationSource",
			"settingCount",
			"isAssigned",
		},
		TemplateSubdir: "compliance",
		WrapperKeys:    []string{"compliancePolicies", "policies"},
	}
}
