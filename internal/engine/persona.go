package engine

import "github.com/convertstack/driver-engine/internal/models"

// Classify assigns exactly one persona to record i via a strict ordered
// cascade; the first matching rule wins and later rules are never revisited.
// Classification is total: every record receives a label, with unclassified
// as the reachable fall-through (frequent hits there indicate a rule gap).
func Classify(ds *models.Dataset, i int) models.Persona {
	subscriptions := ds.Value(models.OutcomeSubscriptions, i)
	active := ds.Value("activeSubscriptions", i)
	deposits := ds.Value(models.OutcomeDeposits, i)
	copies := ds.Value(models.OutcomeCopies, i)
	profileViews := ds.Value("totalProfileViews", i)
	portfolioViews := ds.Value("totalPortfolioViews", i)
	feedViews := ds.Value("totalFeedViews", i)
	videoViews := ds.Value("totalVideoViews", i)

	switch {
	case subscriptions > 0 || active > 0:
		return models.PersonaPremium
	case deposits > 0:
		// Subscriptions are zero here; any deposit activity marks core.
		return models.PersonaCore
	case copies == 0 && (profileViews > 0 || portfolioViews > 0):
		return models.PersonaActivationTargets
	case copies == 0 && profileViews == 0 && portfolioViews == 0 && feedViews == 0 && videoViews == 0:
		return models.PersonaNonActivated
	default:
		return models.PersonaUnclassified
	}
}

// ClassifyAll labels every record in the dataset, parallel to its indexes.
func ClassifyAll(ds *models.Dataset) []models.Persona {
	personas := make([]models.Persona, ds.N)
	for i := 0; i < ds.N; i++ {
		personas[i] = Classify(ds, i)
	}
	return personas
}
