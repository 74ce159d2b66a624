package resources

import "github.com/intunekit/hydrator/internal/core/domain"

// All returns every kind config in hydration order.
func All() []domain.KindConfig {
	return []domain.KindConfig{
		GroupKind(),
		FilterKind(),
		CompliancePolicyKind(),
		AppProtectionPolicyKind(),
		NotificationTemplateKind(),
		EnrollmentProfileKind(),
		ConditionalAccessPolicyKind(),
		MobileAppKind(),
	}
}
