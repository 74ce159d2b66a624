package json

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
	"github.com/intunekit/hydrator/internal/errors"
)

const ReporterTypeJSON = "json"

type Config struct {
	// OutputPath writes the report to a file instead of stdout.
	OutputPath string `mapstructure:"output_path"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

type jsonReport struct {
	Run     jsonRun          `json:"run"`
	Summary jsonSummary      `json:"summary"`
	Results []jsonResultItem `json:"results"`
}

type jsonRun struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Mode      string    `json:"mode"`
	DryRun    bool      `json:"dry_run"`
	StartedAt time.Time `json:"started_at"`
}

type jsonSummary struct {
	Total     int                                          `json:"total_objects_processed"`
	ByOutcome map[domain.Outcome]int                       `json:"by_outcome"`
	ByKind    map[domain.ResourceKind]map[domain.Outcome]int `json:"by_kind"`
}

type jsonResultItem struct {
	Timestamp time.Time           `json:"timestamp"`
	Kind      domain.ResourceKind `json:"kind"`
	Name      string              `json:"name"`
	Outcome   domain.Outcome      `json:"outcome"`
	ID        string              `json:"id,omitempty"`
	Detail    string              `json:"detail,omitempty"`
}

func (r *Reporter) Report(ctx context.Context, run domain.RunContext, records []domain.ResultRecord, summary domain.Summary) error {
	mode := "apply"
	if run.RemoveExisting {
		mode = "remove"
	}

	report := jsonReport{
		Run: jsonRun{
			ID:        run.RunID,
			TenantID:  run.TenantID,
			Mode:      mode,
			DryRun:    run.DryRun,
			StartedAt: run.StartedAt,
		},
		Summary: jsonSummary{
			Total:     summary.Total,
			ByOutcome: summary.ByOutcome,
			ByKind:    summary.ByKind,
		},
		Results: make([]jsonResultItem, 0, len(records)),
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report.Results = append(report.Results, jsonResultItem{
			Timestamp: rec.Timestamp,
			Kind:      rec.Kind,
			Name:      rec.Name,
			Outcome:   rec.Outcome,
			ID:        rec.ID,
			Detail:    rec.Detail,
		})
	}

	writer := r.writer
	if r.config.OutputPath != "" {
		f, err := os.Create(r.config.OutputPath)
		if err != nil {
			return errors.Wrap(err, errors.CodeReportRenderError, "creating JSON report file")
		}
		defer f.Close()
		writer = f
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return errors.Wrap(err, errors.CodeReportRenderError, "encoding JSON report")
	}

	if r.config.OutputPath != "" {
		r.logger.Infof(ctx, "JSON report written to %s", r.config.OutputPath)
	}
	return nil
}
