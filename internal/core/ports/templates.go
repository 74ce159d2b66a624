package ports

import (
	"context"

	"github.com/intunekit/hydrator/internal/core/domain"
)

// TemplateSource loads desired-state definitions for one kind. Definitions
// that fail parsing or validation come back as Failed records instead of
// aborting the load; a missing template directory yields an empty slice.
type TemplateSource interface {
	Load(ctx context.Context, cfg domain.KindConfig) ([]domain.ResourceDefinition, []domain.ResultRecord)
}
