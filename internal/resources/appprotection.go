package resources

import (
	"strings"

	"github.com/intunekit/hydrator/internal/core/domain"
)

const (
	iosAppProtectionEndpoint     = "/beta/deviceAppManagement/iosManagedAppProtections"
	androidAppProtectionEndpoint = "/beta/deviceAppManagement/androidManagedAppProtections"
)

func AppProtectionPolicyKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindAppProtectionPolicy,
		Endpoints:      []string{iosAppProtectionEndpoint, androidAppProtectionEndpoint},
		RequiredFields: []string{"@odata.type"},
		SelectCreateEndpoint: func(payload map[string]any) string {
			odataType, _ := payload["@odata.type"].(string)
			if strings.Contains(strings.ToLower(odataType), "android") {
				return androidAppProtectionEndpoint
			}
			return iosAppProtectionEndpoint
		},
		MarkerField: "description",
		StripFields: []string{
			"deployedAppCount",
			"isAssigned",
			"version",
		},
		TemplateSubdir: "appprotection",
		WrapperKeys:    []string{"appProtectionPolicies", "policies"},
	}
}
