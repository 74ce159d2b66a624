package ports

import (
	"context"

	"github.com/intunekit/hydrator/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, run domain.RunContext, records []domain.ResultRecord, summary domain.Summary) error
}
