package resources

import "github.com/intunekit/hydrator/internal/core/domain"

func FilterKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindFilter,
		Endpoints:      []string{"/beta/deviceManagement/assignmentFilters"},
		RequiredFields: []string{"platform", "rule"},
		MarkerField:    "description",
		StripFields:    []string{"payloads"},
		TemplateSubdir: "filters",
		WrapperKeys:    []string{"filters", "assignmentFilters"},
	}
}
