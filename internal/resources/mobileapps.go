package resources

import "github.com/intunekit/hydrator/internal/core/domain"

func MobileAppKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindMobileApp,
		Endpoints:      []string{"/beta/deviceAppManagement/mobileApps"},
		RequiredFields: []string{"@odata.type"},
		// Mobile apps carry the ownership marker in notes, not description.
		MarkerField: "notes",
		StripFields: []string{
			"uploadState",
			"publishingState",
			"isAssigned",
			"dependentAppCount",
			"supersedingAppCount",
			"supersededAppCount",
			"size",
		},
		TemplateSubdir: "mobileapps",
		WrapperKeys:    []string{"mobileApps", "apps"},
	}
}
