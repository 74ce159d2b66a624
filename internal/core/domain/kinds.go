package domain

type ResourceKind string

const (
	KindGroup                   ResourceKind = "Group"
	KindFilter                  ResourceKind = "Filter"
	KindCompliancePolicy        ResourceKind = "CompliancePolicy"
	KindAppProtectionPolicy     ResourceKind = "AppProtectionPolicy"
	KindNotificationTemplate    ResourceKind = "NotificationTemplate"
	KindEnrollmentProfile       ResourceKind = "EnrollmentProfile"
	KindConditionalAccessPolicy ResourceKind = "ConditionalAccessPolicy"
	KindMobileApp               ResourceKind = "MobileApp"
)

func (rk ResourceKind) String() string {
	return string(rk)
}

// AllKinds returns every managed kind in hydration order. Groups come first
// because later kinds reference them in assignments.
func AllKinds() []ResourceKind {
	return []ResourceKind{
		KindGroup,
		KindFilter,
		KindCompliancePolicy,
		KindAppProtectionPolicy,
		KindNotificationTemplate,
		KindEnrollmentProfile,
		KindConditionalAccessPolicy,
		KindMobileApp,
	}
}
