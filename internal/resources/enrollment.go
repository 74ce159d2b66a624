package resources

import "github.com/intunekit/hydrator/internal/core/domain"

func EnrollmentProfileKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindEnrollmentProfile,
		Endpoints:      []string{"/beta/deviceManagement/deviceEnrollmentConfigurations"},
		RequiredFields: []string{"@odata.type"},
		MarkerField:    "description",
		StripFields: []string{
			"priority",
			"version",
		},
		TemplateSubdir: "enrollment",
		WrapperKeys:    []string{"enrollmentProfiles", "profiles"},
	}
}
