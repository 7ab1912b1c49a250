package engine

import "github.com/convertstack/driver-engine/internal/models"

// Summarize aggregates top-line conversion rates, demographic breakdowns
// and persona counts. Pure aggregation over the dataset and its parallel
// persona labels; no side effects.
func Summarize(ds *models.Dataset, personas []models.Persona) models.SummaryStats {
	stats := models.SummaryStats{
		TotalUsers:       ds.N,
		LinkedBankRate:   conversionRate(ds.Column("hasLinkedBank"), ds.N),
		FirstCopyRate:    conversionRate(ds.Column(models.OutcomeCopies), ds.N),
		DepositRate:      conversionRate(ds.Column(models.OutcomeDeposits), ds.N),
		SubscriptionRate: conversionRate(ds.Column(models.OutcomeSubscriptions), ds.N),
		Demographics:     make(map[string]models.DemographicBreakdown, len(ds.Categorical)),
		Personas:         make(map[models.Persona]models.PersonaBreakdown, len(models.Personas())),
	}

	for field, values := range ds.Categorical {
		breakdown := models.DemographicBreakdown{Counts: make(map[string]int)}
		for _, v := range values {
			if v == "" {
				continue
			}
			breakdown.Counts[v]++
			breakdown.TotalResponses++
		}
		stats.Demographics[field] = breakdown
	}

	counts := make(map[models.Persona]int, len(models.Personas()))
	for _, p := range personas {
		counts[p]++
	}
	for _, label := range models.Personas() {
		// Zero-filled: absent labels still appear in the report.
		count := counts[label]
		breakdown := models.PersonaBreakdown{Count: count}
		if ds.N > 0 {
			breakdown.Percent = float64(count) * 100 / float64(ds.N)
		}
		stats.Personas[label] = breakdown
	}

	return stats
}

// conversionRate is the share of records with a positive value.
func conversionRate(col []float64, total int) float64 {
	if total == 0 {
		return 0
	}
	matched := 0
	for _, v := range col {
		if v > 0 {
			matched++
		}
	}
	return float64(matched) / float64(total)
}
