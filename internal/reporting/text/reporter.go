package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/intunekit/hydrator/internal/core/domain"
	"github.com/intunekit/hydrator/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, run domain.RunContext, records []domain.ResultRecord, summary domain.Summary) error {
	if len(records) == 0 {
		fmt.Fprintln(r.writer, "No objects processed.")
		return nil
	}

	sorted := make([]domain.ResultRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Name < sorted[j].Name
	})

	tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
	defer tw.Flush()

	mode := "apply"
	if run.RemoveExisting {
		mode = "remove"
	}
	fmt.Fprintln(tw, "Intune Hydration Report")
	fmt.Fprintln(tw, "=======================")
	fmt.Fprintf(tw, "Run:\t%s\tTenant:\t%s\tMode:\t%s\tDry-run:\t%t\n", run.RunID, run.TenantID, mode, run.DryRun)
	fmt.Fprintln(tw, "")
	fmt.Fprintln(tw, "Outcome\tKind\tName\tID\tDetail")
	fmt.Fprintln(tw, "-------\t----\t----\t--\t------")

	for _, rec := range sorted {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			colorize(rec.Outcome), rec.Kind, rec.Name, rec.ID, rec.Detail)
	}

	fmt.Fprintln(tw, "\nSummary:")
	fmt.Fprintln(tw, "-------")
	fmt.Fprintf(tw, "Total Objects Processed:\t%d\n", summary.Total)
	for _, outcome := range outcomeOrder() {
		if n, ok := summary.ByOutcome[outcome]; ok {
			fmt.Fprintf(tw, "%s:\t%d\n", colorize(outcome), n)
		}
	}

	return nil
}

func outcomeOrder() []domain.Outcome {
	return []domain.Outcome{
		domain.OutcomeCreated,
		domain.OutcomeUpdated,
		domain.OutcomeSkipped,
		domain.OutcomeDeleted,
		domain.OutcomeWouldCreate,
		domain.OutcomeWouldUpdate,
		domain.OutcomeWouldDelete,
		domain.OutcomeFailed,
	}
}

func colorize(outcome domain.Outcome) string {
	label := "[" + string(outcome) + "]"
	switch outcome {
	case domain.OutcomeCreated, domain.OutcomeUpdated:
		return color.New(color.FgGreen).Sprint(label)
	case domain.OutcomeDeleted:
		return color.New(color.FgMagenta).Sprint(label)
	case domain.OutcomeFailed:
		return color.New(color.FgRed).Sprint(label)
	case domain.OutcomeWouldCreate, domain.OutcomeWouldUpdate, domain.OutcomeWouldDelete:
		return color.New(color.FgYellow).Sprint(label)
	case domain.OutcomeSkipped:
		return color.New(color.FgCyan).Sprint(label)
	default:
		return label
	}
}
