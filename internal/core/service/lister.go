package service

import (
	"context"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
)

// ListExisting builds the display-name index of objects already in the tenant
// for one kind, unioning every backing endpoint before matching. A failed
// endpoint degrades to "nothing listed there" with a warning: one broken
// endpoint must not block unrelated kinds, at the documented risk of a
// duplicate create. Duplicate display names keep the first occurrence.
func ListExisting(ctx context.Context, g ports.GraphService, cfg domain.KindConfig, logger ports.Logger) map[string]domain.ExistingResource {
	existing := make(map[string]domain.ExistingResource)

	for _, endpoint := range cfg.Endpoints {
		objects, err := g.List(ctx, endpoint)
		if err != nil {
			logger.Warnf(ctx, "Listing %s for kind %s failed, treating as empty (duplicate-create risk): %v",
				endpoint, cfg.Kind, err)
			continue
		}

		for _, obj := range objects {
			name := cfg.DisplayNameOf(obj)
			if name == "" {
				continue
			}
			if _, dup := existing[name]; dup {
				continue
			}

			id, _ := obj["id"].(string)
			marker, _ := obj[cfg.MarkerField].(string)
			state, _ := obj["state"].(string)

			existing[name] = domain.ExistingResource{
				ID:          id,
				DisplayName: name,
				MarkerValue: marker,
				State:       state,
				Endpoint:    endpoint,
			}
		}
	}

	logger.Debugf(ctx, "Found %d existing objects for kind %s", len(existing), cfg.Kind)
	return existing
}
