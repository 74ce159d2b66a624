// Package resources declares one KindConfig per managed resource kind. Each
// config carries everything the reconciler needs to treat the kind
// generically: endpoints, required template fields, the marker field, and the
// fields the server owns.
package resources

import "github.com/intunekit/hydrator/internal/core/domain"

func GroupKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:           domain.KindGroup,
		Endpoints:      []string{"/v1.0/groups"},
		RequiredFields: []string{"membershipRule"},
		MarkerField:    "description",
		StripFields: []string{
			"createdByAppId",
			"renewedDateTime",
			"securityIdentifier",
		},
		TemplateSubdir: "groups",
		WrapperKeys:    []string{"groups"},
	}
}
