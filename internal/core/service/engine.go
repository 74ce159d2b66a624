package service

import (
	"context"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
	"github.com/intunekit/hydrator/internal/errors"
)

// Engine drives one hydration run: for each enabled kind, list existing
// objects, reconcile against the templates (or remove kit-owned objects in
// delete-mode), and render the aggregated report. Kinds are processed
// strictly sequentially; concurrent Graph calls would multiply throttling.
type Engine struct {
	registry   *KindRegistry
	templates  ports.TemplateSource
	graph      ports.GraphService
	reconciler *Reconciler
	reporters  []ports.Reporter
	logger     ports.Logger
	run        domain.RunContext
	enabled    map[domain.ResourceKind]bool
}

func NewEngine(
	registry *KindRegistry,
	templates ports.TemplateSource,
	graph ports.GraphService,
	reconciler *Reconciler,
	reporters []ports.Reporter,
	logger ports.Logger,
	run domain.RunContext,
	enabledKinds []domain.ResourceKind,
) (*Engine, error) {
	if registry == nil {
		return nil, errors.New(errors.CodeInternal, "kind registry cannot be nil")
	}
	if graph == nil {
		return nil, errors.New(errors.CodeInternal, "graph service cannot be nil")
	}
	if templates == nil && !run.RemoveExisting {
		return nil, errors.New(errors.CodeInternal, "template source cannot be nil in create-mode")
	}
	if reconciler == nil {
		return nil, errors.New(errors.CodeInternal, "reconciler cannot be nil")
	}

	var enabled map[domain.ResourceKind]bool
	if len(enabledKinds) > 0 {
		enabled = make(map[domain.ResourceKind]bool, len(enabledKinds))
		for _, k := range enabledKinds {
			enabled[k] = true
		}
	}

	return &Engine{
		registry:   registry,
		templates:  templates,
		graph:      graph,
		reconciler: reconciler,
		reporters:  reporters,
		logger:     logger.WithFields(map[string]any{"component": "engine"}),
		run:        run,
		enabled:    enabled,
	}, nil
}

func (e *Engine) Run(ctx context.Context) error {
	mode := "apply"
	if e.run.RemoveExisting {
		mode = "remove"
	}
	e.logger.Infof(ctx, "Starting hydration run %s (mode: %s, dry-run: %t, force: %t, tenant: %s)",
		e.run.RunID, mode, e.run.DryRun, e.run.ForceUpdate, e.run.TenantID)

	opts := ReconcileOptions{DryRun: e.run.DryRun, ForceUpdate: e.run.ForceUpdate}
	var records []domain.ResultRecord

	for _, cfg := range e.registry.Configs() {
		if ctx.Err() != nil {
			e.logger.Warnf(ctx, "Run cancelled before kind %s", cfg.Kind)
			break
		}
		if e.enabled != nil && !e.enabled[cfg.Kind] {
			e.logger.Debugf(ctx, "Kind %s disabled for this run", cfg.Kind)
			continue
		}

		klog := e.logger.WithFields(map[string]any{"kind": cfg.Kind})
		existing := ListExisting(ctx, e.graph, cfg, klog)

		if e.run.RemoveExisting {
			records = append(records, e.reconciler.Remove(ctx, cfg, existing, opts)...)
			continue
		}

		defs, loadFailures := e.templates.Load(ctx, cfg)
		records = append(records, loadFailures...)
		records = append(records, e.reconciler.Apply(ctx, cfg, defs, existing, opts)...)
	}

	summary := Aggregate(records)
	e.logger.Infof(ctx, "Reconciliation finished: %d records across %d kinds", summary.Total, len(summary.ByKind))

	// Reports are rendered even when objects failed; only run-level errors
	// before this point suppress them.
	var reportErr error
	for _, reporter := range e.reporters {
		if err := reporter.Report(ctx, e.run, records, summary); err != nil {
			e.logger.Errorf(ctx, err, "Report rendering failed")
			reportErr = errors.Wrap(err, errors.CodeReportRenderError, "failed to render report")
		}
	}

	return reportErr
}
