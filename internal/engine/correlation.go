package engine

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/convertstack/driver-engine/internal/models"
)

// columnSums carries the per-variable terms of the Pearson formula. They are
// computed once per variable and combined pairwise, so the full computation
// stays O(V*N) instead of O(V^2*N).
type columnSums struct {
	sum   float64
	sumSq float64
}

// Correlate computes the Pearson correlation of every predictor against
// every outcome. Outcomes fan out across goroutines; each writes its own
// pre-allocated slot of the result map, so no locking is needed.
//
// Zero variance in either series yields exactly 0, never NaN, and every
// result is clamped to [-1, 1].
func Correlate(ds *models.Dataset, vars VariableSet) map[string]map[string]float64 {
	sums := make(map[string]columnSums, len(vars.Predictors)+len(vars.Outcomes))
	for _, name := range vars.Predictors {
		sums[name] = sumColumn(ds.Column(name))
	}
	for _, name := range vars.Outcomes {
		sums[name] = sumColumn(ds.Column(name))
	}

	results := make(map[string]map[string]float64, len(vars.Outcomes))
	for _, outcome := range vars.Outcomes {
		results[outcome] = make(map[string]float64, len(vars.Predictors))
	}

	var g errgroup.Group
	for _, outcome := range vars.Outcomes {
		outcome := outcome
		g.Go(func() error {
			slot := results[outcome]
			y := ds.Column(outcome)
			ySums := sums[outcome]
			for _, predictor := range vars.Predictors {
				if predictor == outcome {
					continue
				}
				x := ds.Column(predictor)
				slot[predictor] = pearson(x, y, sums[predictor], ySums)
			}
			return nil
		})
	}
	// Workers never return errors; Wait is just the join point.
	_ = g.Wait()

	return results
}

func sumColumn(col []float64) columnSums {
	var s columnSums
	for _, v := range col {
		s.sum += v
		s.sumSq += v * v
	}
	return s
}

// pearson combines the per-column sums with the pairwise cross term. Only
// the cross product requires a pass over the records.
func pearson(x, y []float64, xs, ys columnSums) float64 {
	n := len(x)
	if n == 0 || len(y) != n {
		return 0
	}

	var sumXY float64
	for i := 0; i < n; i++ {
		sumXY += x[i] * y[i]
	}

	fn := float64(n)
	varX := fn*xs.sumSq - xs.sum*xs.sum
	varY := fn*ys.sumSq - ys.sum*ys.sum
	denom := math.Sqrt(varX * varY)
	if denom <= 0 || math.IsNaN(denom) {
		return 0
	}

	r := (fn*sumXY - xs.sum*ys.sum) / denom
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
