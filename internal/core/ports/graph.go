package ports

import "context"

// GraphService is the generic list/create/delete capability the reconciler
// consumes. Endpoints are Graph-relative paths like
// "/beta/deviceManagement/assignmentFilters". List follows pagination until
// exhausted. Create returns the created object as the server echoed it back.
type GraphService interface {
	List(ctx context.Context, endpoint string) ([]map[string]any, error)
	Create(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error)
	Delete(ctx context.Context, endpoint string, id string) error
}
