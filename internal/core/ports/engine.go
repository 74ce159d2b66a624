package ports

import "context"

type HydrationEngine interface {
	Run(ctx context.Context) error
}
