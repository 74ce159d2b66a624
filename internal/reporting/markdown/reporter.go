package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
	"github.com/intunekit/hydrator/internal/errors"
)

const ReporterTypeMarkdown = "markdown"

type Config struct {
	// OutputDir is where report files are written. Defaults to the working directory.
	OutputDir string `mapstructure:"output_dir"`
}

// Reporter writes a per-run Markdown artifact suitable for attaching to
// change records or pipeline summaries.
type Reporter struct {
	config Config
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return &Reporter{config: cfg, logger: logger}, nil
}

func (r *Reporter) Report(ctx context.Context, run domain.RunContext, records []domain.ResultRecord, summary domain.Summary) error {
	var sb strings.Builder

	mode := "apply"
	if run.RemoveExisting {
		mode = "remove"
	}

	sb.WriteString("# Intune Hydration Report\n\n")
	fmt.Fprintf(&sb, "| Run | Tenant | Mode | Dry-run | Started |\n")
	fmt.Fprintf(&sb, "|---|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %s | %s | %s | %t | %s |\n\n",
		run.RunID, run.TenantID, mode, run.DryRun, run.StartedAt.Format("2006-01-02 15:04:05 MST"))

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "Total objects processed: **%d**\n\n", summary.Total)
	if len(summary.ByOutcome) > 0 {
		sb.WriteString("| Outcome | Count |\n|---|---|\n")
		for _, outcome := range []domain.Outcome{
			domain.OutcomeCreated, domain.OutcomeUpdated, domain.OutcomeSkipped,
			domain.OutcomeDeleted, domain.OutcomeWouldCreate, domain.OutcomeWouldUpdate,
			domain.OutcomeWouldDelete, domain.OutcomeFailed,
		} {
			if n, ok := summary.ByOutcome[outcome]; ok {
				fmt.Fprintf(&sb, "| %s | %d |\n", outcome, n)
			}
		}
		sb.WriteString("\n")
	}

	for _, kind := range domain.AllKinds() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var kindRecords []domain.ResultRecord
		for _, rec := range records {
			if rec.Kind == kind {
				kindRecords = append(kindRecords, rec)
			}
		}
		if len(kindRecords) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n\n", kind)
		sb.WriteString("| Outcome | Name | ID | Detail |\n|---|---|---|---|\n")
		for _, rec := range kindRecords {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				rec.Outcome, escapeCell(rec.Name), rec.ID, escapeCell(rec.Detail))
		}
		sb.WriteString("\n")
	}

	name := fmt.Sprintf("hydration-report-%s.md", run.StartedAt.Format("20060102-150405"))
	path := filepath.Join(r.config.OutputDir, name)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return errors.Wrap(err, errors.CodeReportRenderError, "writing Markdown report")
	}

	r.logger.Infof(ctx, "Markdown report written to %s", path)
	return nil
}

// escapeCell keeps pipes in names or details from breaking table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
