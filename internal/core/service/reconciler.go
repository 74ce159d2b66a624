package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
	"github.com/intunekit/hydrator/internal/ownership"
)

// ReconcileOptions are the per-invocation switches the reconciler honors.
// Create-mode (Apply) and delete-mode (Remove) are separate entry points;
// the operator chooses one per run.
type ReconcileOptions struct {
	DryRun      bool
	ForceUpdate bool
}

// Reconciler computes one outcome per (kind, displayName) pair and issues the
// corresponding Graph calls. Mutating calls are paced through the rate
// limiter; under dry-run no mutating call is ever issued.
type Reconciler struct {
	graph   ports.GraphService
	owner   ownership.Checker
	limiter *rate.Limiter
	logger  ports.Logger
	now     func() time.Time
}

func NewReconciler(graph ports.GraphService, owner ownership.Checker, limiter *rate.Limiter, logger ports.Logger) *Reconciler {
	return &Reconciler{
		graph:   graph,
		owner:   owner,
		limiter: limiter,
		logger:  logger.WithFields(map[string]any{"component": "reconciler"}),
		now:     time.Now,
	}
}

// Apply runs create-mode reconciliation: for each definition, Create when no
// object with the same display name exists, Skip when one does, or
// delete-then-recreate under force-update. The existing map is updated with
// each created object so a duplicate template display name later in the set
// observes the first writer and Skips.
func (r *Reconciler) Apply(ctx context.Context, cfg domain.KindConfig, defs []domain.ResourceDefinition,
	existing map[string]domain.ExistingResource, opts ReconcileOptions) []domain.ResultRecord {

	log := r.logger.WithFields(map[string]any{"kind": cfg.Kind})
	records := make([]domain.ResultRecord, 0, len(defs))

	for _, def := range defs {
		if ctx.Err() != nil {
			break
		}

		rec := r.applyOne(ctx, cfg, def, existing, opts, log)
		log.Infof(ctx, "[%s] %s: %s", rec.Kind, rec.Name, rec.Outcome)
		records = append(records, rec)
	}

	return records
}

func (r *Reconciler) applyOne(ctx context.Context, cfg domain.KindConfig, def domain.ResourceDefinition,
	existing map[string]domain.ExistingResource, opts ReconcileOptions, log ports.Logger) domain.ResultRecord {

	current, found := existing[def.DisplayName]

	switch {
	case !found:
		if opts.DryRun {
			return r.record(cfg.Kind, def.DisplayName, domain.OutcomeWouldCreate, "", "")
		}
		return r.create(ctx, cfg, def, existing)

	case !opts.ForceUpdate:
		return r.record(cfg.Kind, def.DisplayName, domain.OutcomeSkipped, current.ID, "object already exists")

	default:
		if opts.DryRun {
			return r.record(cfg.Kind, def.DisplayName, domain.OutcomeWouldUpdate, current.ID, "")
		}
		return r.replace(ctx, cfg, def, current, existing, log)
	}
}

func (r *Reconciler) create(ctx context.Context, cfg domain.KindConfig, def domain.ResourceDefinition,
	existing map[string]domain.ExistingResource) domain.ResultRecord {

	body := r.buildCreateBody(cfg, def)
	endpoint := cfg.CreateEndpoint(def.Payload)

	if err := r.pace(ctx); err != nil {
		return r.record(cfg.Kind, def.DisplayName, domain.OutcomeFailed, "", err.Error())
	}

	created, err := r.graph.Create(ctx, endpoint, body)
	if err != nil {
		return r.record(cfg.Kind, def.DisplayName, domain.OutcomeFailed, "", err.Error())
	}

	id, _ := created["id"].(string)
	marker, _ := body[cfg.MarkerField].(string)
	existing[def.DisplayName] = domain.ExistingResource{
		ID:          id,
		DisplayName: def.DisplayName,
		MarkerValue: marker,
		Endpoint:    endpoint,
	}

	return r.record(cfg.Kind, def.DisplayName, domain.OutcomeCreated, id, "")
}

// replace implements force-update as delete-then-recreate: the Graph
// resources handled here do not support reliable partial PATCH for nested
// payloads. A delete that succeeds followed by a create that fails leaves the
// tenant without the object; that state is surfaced explicitly, never folded
// into a generic failure.
func (r *Reconciler) replace(ctx context.Context, cfg domain.KindConfig, def domain.ResourceDefinition,
	current domain.ExistingResource, existing map[string]domain.ExistingResource, log ports.Logger) domain.ResultRecord {

	if err := r.pace(ctx); err != nil {
		return r.record(cfg.Kind, def.DisplayName, domain.OutcomeFailed, current.ID, err.Error())
	}

	if err := r.graph.Delete(ctx, current.Endpoint, current.ID); err != nil {
		return r.record(cfg.Kind, def.DisplayName, domain.OutcomeFailed, current.ID,
			fmt.Sprintf("replace aborted, delete of existing object failed: %v", err))
	}
	delete(existing, def.DisplayName)

	body := r.buildCreateBody(cfg, def)
	endpoint := cfg.CreateEndpoint(def.Payload)

	if err := r.pace(ctx); err != nil {
		return r.record(cfg.Kind, def.DisplayName, domain.OutcomeFailed, "",
			fmt.Sprintf("existing object %s deleted but recreate did not run, object is now absent: %v", current.ID, err))
	}

	created, err := r.graph.Create(ctx, endpoint, body)
	if err != nil {
		log.Errorf(ctx, err, "Recreate failed after delete, %s %q is now absent from the tenant", cfg.Kind, def.DisplayName)
		return r.record(cfg.Kind, def.DisplayName, domain.OutcomeFailed, "",
			fmt.Sprintf("existing object %s deleted but recreate failed, object is now absent: %v", current.ID, err))
	}

	id, _ := created["id"].(string)
	marker, _ := body[cfg.MarkerField].(string)
	existing[def.DisplayName] = domain.ExistingResource{
		ID:          id,
		DisplayName: def.DisplayName,
		MarkerValue: marker,
		Endpoint:    endpoint,
	}

	return r.record(cfg.Kind, def.DisplayName, domain.OutcomeUpdated, id, "replaced existing object "+current.ID)
}

// Remove runs delete-mode reconciliation. Only objects carrying the ownership
// marker are eligible, and a kind's extra delete gate (conditional access
// requiring the disabled state) must also pass. Ineligible objects produce no
// record and no call.
func (r *Reconciler) Remove(ctx context.Context, cfg domain.KindConfig,
	existing map[string]domain.ExistingResource, opts ReconcileOptions) []domain.ResultRecord {

	log := r.logger.WithFields(map[string]any{"kind": cfg.Kind})

	names := make([]string, 0, len(existing))
	for name := range existing {
		names = append(names, name)
	}
	sort.Strings(names)

	var records []domain.ResultRecord
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		obj := existing[name]

		if !r.owner.IsOwned(obj.MarkerValue) {
			log.Debugf(ctx, "Skipping %q: not kit-owned", name)
			continue
		}
		if cfg.DeleteGate != nil && !cfg.DeleteGate(obj) {
			log.Debugf(ctx, "Skipping %q: kind delete gate refused", name)
			continue
		}

		if opts.DryRun {
			records = append(records, r.record(cfg.Kind, name, domain.OutcomeWouldDelete, obj.ID, ""))
			continue
		}

		rec := r.deleteOne(ctx, cfg, obj)
		log.Infof(ctx, "[%s] %s: %s", rec.Kind, rec.Name, rec.Outcome)
		records = append(records, rec)
	}

	return records
}

func (r *Reconciler) deleteOne(ctx context.Context, cfg domain.KindConfig, obj domain.ExistingResource) domain.ResultRecord {
	if err := r.pace(ctx); err != nil {
		return r.record(cfg.Kind, obj.DisplayName, domain.OutcomeFailed, obj.ID, err.Error())
	}

	if err := r.graph.Delete(ctx, obj.Endpoint, obj.ID); err != nil {
		return r.record(cfg.Kind, obj.DisplayName, domain.OutcomeFailed, obj.ID, err.Error())
	}
	return r.record(cfg.Kind, obj.DisplayName, domain.OutcomeDeleted, obj.ID, "")
}

// buildCreateBody shallow-copies the template payload, strips the
// server-assigned fields, stamps the ownership marker, and applies the kind's
// create hook. The definition's own payload is never mutated.
func (r *Reconciler) buildCreateBody(cfg domain.KindConfig, def domain.ResourceDefinition) map[string]any {
	body := make(map[string]any, len(def.Payload))
	for k, v := range def.Payload {
		body[k] = v
	}

	for _, field := range domain.ServerAssignedFields {
		delete(body, field)
	}
	for _, field := range cfg.StripFields {
		delete(body, field)
	}

	original, _ := body[cfg.MarkerField].(string)
	body[cfg.MarkerField] = r.owner.Stamp(original)

	if cfg.PrepareCreate != nil {
		cfg.PrepareCreate(body)
	}

	return body
}

func (r *Reconciler) pace(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}

func (r *Reconciler) record(kind domain.ResourceKind, name string, outcome domain.Outcome, id, detail string) domain.ResultRecord {
	return domain.ResultRecord{
		Timestamp: r.now(),
		Kind:      kind,
		Name:      name,
		Outcome:   outcome,
		ID:        id,
		Detail:    detail,
	}
}
