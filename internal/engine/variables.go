package engine

import "github.com/convertstack/driver-engine/internal/models"

// VariableSet enumerates the outcomes and the predictors tested against
// them. Predictors come from the dataset (catalogue plus discovered extras)
// with outcomes filtered out, so an outcome can never predict itself.
type VariableSet struct {
	Outcomes   []string
	Predictors []string
}

// NewVariableSet derives the variable set for a dataset.
func NewVariableSet(ds *models.Dataset) VariableSet {
	outcomes := models.Outcomes()
	isOutcome := make(map[string]struct{}, len(outcomes))
	for _, o := range outcomes {
		isOutcome[o] = struct{}{}
	}

	predictors := make([]string, 0, len(ds.Predictors))
	for _, p := range ds.Predictors {
		if _, ok := isOutcome[p]; ok {
			continue
		}
		predictors = append(predictors, p)
	}

	return VariableSet{Outcomes: outcomes, Predictors: predictors}
}
