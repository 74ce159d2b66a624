package service

import "github.com/intunekit/hydrator/internal/core/domain"

// Aggregate counts records by outcome and by kind. Pure single pass.
func Aggregate(records []domain.ResultRecord) domain.Summary {
	summary := domain.Summary{
		Total:     len(records),
		ByOutcome: make(map[domain.Outcome]int),
		ByKind:    make(map[domain.ResourceKind]map[domain.Outcome]int),
	}

	for _, rec := range records {
		summary.ByOutcome[rec.Outcome]++

		kindCounts, ok := summary.ByKind[rec.Kind]
		if !ok {
			kindCounts = make(map[domain.Outcome]int)
			summary.ByKind[rec.Kind] = kindCounts
		}
		kindCounts[rec.Outcome]++
	}

	return summary
}
