package resources

import "github.com/intunekit/hydrator/internal/core/domain"

func NotificationTemplateKind() domain.KindConfig {
	return domain.KindConfig{
		Kind:        domain.KindNotificationTemplate,
		Endpoints:   []string{"/beta/deviceManagement/notificationMessageTemplates"},
		MarkerField: "description",
		// Localized messages are settable on creation and pass through
		// opaquely with the rest of the payload.
		StripFields:    []string{"defaultLocale"},
		TemplateSubdir: "notifications",
		WrapperKeys:    []string{"notificationTemplates", "templates"},
	}
}
