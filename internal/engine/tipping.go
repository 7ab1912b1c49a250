package engine

import (
	"math"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/convertstack/driver-engine/internal/models"
)

// Default thresholds for tipping-point detection.
const (
	DefaultMinBucketSize  = 10
	DefaultMinTippingRate = 0.10
)

// TippingPoints finds, for every (outcome, predictor) pair, the predictor
// value at which the conversion rate jumps the most. Each variable is
// bucketed in a single pass over the records and the bucket membership is
// then fanned out across the three outcomes, so the dataset is never
// rescanned per pair.
//
// The result is keyed outcome -> variable -> integer bucket value rendered
// as a string, or models.TippingPointNA when fewer than two buckets clear
// the minimum size or no qualifying jump exists.
func TippingPoints(ds *models.Dataset, vars VariableSet, minBucket int, minRate float64) map[string]map[string]string {
	if minBucket <= 0 {
		minBucket = DefaultMinBucketSize
	}
	if minRate <= 0 {
		minRate = DefaultMinTippingRate
	}

	// Each goroutine owns one slot; the maps are assembled afterwards.
	perVariable := make([]map[string]string, len(vars.Predictors))

	var g errgroup.Group
	for vi, variable := range vars.Predictors {
		vi, variable := vi, variable
		g.Go(func() error {
			buckets := bucketByValue(ds.Column(variable))
			// vars.Predictors never contains an outcome, so every pair
			// is a genuine (predictor, outcome) combination.
			slot := make(map[string]string, len(vars.Outcomes))
			for _, outcome := range vars.Outcomes {
				slot[outcome] = detect(buckets, ds.Column(outcome), minBucket, minRate)
			}
			perVariable[vi] = slot
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]map[string]string, len(vars.Outcomes))
	for _, outcome := range vars.Outcomes {
		results[outcome] = make(map[string]string, len(vars.Predictors))
	}
	for vi, variable := range vars.Predictors {
		for outcome, tip := range perVariable[vi] {
			results[outcome][variable] = tip
		}
	}
	return results
}

// bucketByValue groups record indexes by floor(value). Non-numeric inputs
// were already coerced to 0 upstream, so no negative guard is needed here.
func bucketByValue(col []float64) map[int][]int {
	buckets := make(map[int][]int)
	for i, v := range col {
		b := int(math.Floor(v))
		buckets[b] = append(buckets[b], i)
	}
	return buckets
}

// detect walks the qualifying buckets in ascending value order and returns
// the bucket value after the single largest positive conversion-rate jump
// whose resulting rate clears minRate.
func detect(buckets map[int][]int, outcome []float64, minBucket int, minRate float64) string {
	type bucketRate struct {
		value int
		rate  float64
	}

	qualified := make([]bucketRate, 0, len(buckets))
	for value, members := range buckets {
		if len(members) < minBucket {
			continue
		}
		converted := 0
		for _, i := range members {
			if i < len(outcome) && outcome[i] > 0 {
				converted++
			}
		}
		qualified = append(qualified, bucketRate{
			value: value,
			rate:  float64(converted) / float64(len(members)),
		})
	}

	if len(qualified) < 2 {
		return models.TippingPointNA
	}
	sort.Slice(qualified, func(i, j int) bool { return qualified[i].value < qualified[j].value })

	bestJump := 0.0
	tip := models.TippingPointNA
	for i := 1; i < len(qualified); i++ {
		jump := qualified[i].rate - qualified[i-1].rate
		if jump > bestJump && qualified[i].rate > minRate {
			bestJump = jump
			tip = strconv.Itoa(qualified[i].value)
		}
	}
	return tip
}
