package engine

import (
	"testing"

	"github.com/convertstack/driver-engine/internal/models"
)

// repeat builds a column of len(counts) blocks, block i holding counts[i]
// copies of values[i].
func repeat(values []float64, counts []int) []float64 {
	var col []float64
	for i, v := range values {
		for j := 0; j < counts[i]; j++ {
			col = append(col, v)
		}
	}
	return col
}

func TestTippingPointsDetectsJump(t *testing.T) {
	// 15 users reached their first copy at day 2 with a 2/15 copy rate,
	// 15 at day 8 with 12/15. The jump lands on the upper bucket, which is
	// reported as its value.
	days := repeat([]float64{2, 8}, []int{15, 15})
	copies := append(
		repeat([]float64{1, 0}, []int{2, 13}),
		repeat([]float64{1, 0}, []int{12, 3})...,
	)

	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies: copies,
		"timeToFirstCopy":    days,
	})
	tips := TippingPoints(ds, NewVariableSet(ds), DefaultMinBucketSize, DefaultMinTippingRate)

	if got := tips[models.OutcomeCopies]["timeToFirstCopy"]; got != "8" {
		t.Fatalf("tipping point = %q, want %q", got, "8")
	}
}

func TestTippingPointsMinimumSupport(t *testing.T) {
	// The bucket at value 3 converts perfectly but only holds 9 users, one
	// short of the minimum, so it cannot be reported.
	sessions := repeat([]float64{1, 2, 3}, []int{15, 15, 9})
	copies := append(
		repeat([]float64{0}, []int{15}),
		append(
			repeat([]float64{1, 0}, []int{3, 12}),
			repeat([]float64{1}, []int{9})...,
		)...,
	)

	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies: copies,
		"totalSessions":      sessions,
	})
	tips := TippingPoints(ds, NewVariableSet(ds), DefaultMinBucketSize, DefaultMinTippingRate)

	if got := tips[models.OutcomeCopies]["totalSessions"]; got == "3" {
		t.Fatalf("under-supported bucket must not be a tipping point, got %q", got)
	}
}

func TestTippingPointsNoQualifyingJump(t *testing.T) {
	// Rates decline across buckets; no positive jump exists.
	sessions := repeat([]float64{1, 5}, []int{20, 20})
	copies := append(
		repeat([]float64{1, 0}, []int{10, 10}),
		repeat([]float64{1, 0}, []int{2, 18})...,
	)

	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies: copies,
		"totalSessions":      sessions,
	})
	tips := TippingPoints(ds, NewVariableSet(ds), DefaultMinBucketSize, DefaultMinTippingRate)

	if got := tips[models.OutcomeCopies]["totalSessions"]; got != models.TippingPointNA {
		t.Fatalf("declining rates: tipping point = %q, want %q", got, models.TippingPointNA)
	}
}

func TestTippingPointsBelowMinRate(t *testing.T) {
	// A jump from 0% to 8% is below the 10% floor.
	sessions := repeat([]float64{1, 5}, []int{25, 25})
	copies := append(
		repeat([]float64{0}, []int{25}),
		repeat([]float64{1, 0}, []int{2, 23})...,
	)

	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies: copies,
		"totalSessions":      sessions,
	})
	tips := TippingPoints(ds, NewVariableSet(ds), DefaultMinBucketSize, DefaultMinTippingRate)

	if got := tips[models.OutcomeCopies]["totalSessions"]; got != models.TippingPointNA {
		t.Fatalf("below min rate: tipping point = %q, want %q", got, models.TippingPointNA)
	}
}

func TestTippingPointsTooFewBuckets(t *testing.T) {
	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies: repeat([]float64{1, 0}, []int{8, 7}),
		"totalSessions":      repeat([]float64{4}, []int{15}),
	})
	tips := TippingPoints(ds, NewVariableSet(ds), DefaultMinBucketSize, DefaultMinTippingRate)

	if got := tips[models.OutcomeCopies]["totalSessions"]; got != models.TippingPointNA {
		t.Fatalf("single bucket: tipping point = %q, want %q", got, models.TippingPointNA)
	}
}

func TestTippingPointsLargestJumpWins(t *testing.T) {
	// Rates 10% -> 20% -> 80%: the 60-point jump at value 9 beats the
	// 10-point jump at value 5.
	sessions := repeat([]float64{1, 5, 9}, []int{20, 20, 20})
	copies := append(
		repeat([]float64{1, 0}, []int{2, 18}),
		append(
			repeat([]float64{1, 0}, []int{4, 16}),
			repeat([]float64{1, 0}, []int{16, 4})...,
		)...,
	)

	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies: copies,
		"totalSessions":      sessions,
	})
	tips := TippingPoints(ds, NewVariableSet(ds), DefaultMinBucketSize, DefaultMinTippingRate)

	if got := tips[models.OutcomeCopies]["totalSessions"]; got != "9" {
		t.Fatalf("tipping point = %q, want %q", got, "9")
	}
}

func TestTippingPointsCoverEveryPair(t *testing.T) {
	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies:        repeat([]float64{1, 0}, []int{10, 10}),
		models.OutcomeDeposits:      repeat([]float64{0, 1}, []int{10, 10}),
		models.OutcomeSubscriptions: repeat([]float64{0}, []int{20}),
		"totalSessions":             repeat([]float64{1, 5}, []int{10, 10}),
		"hasLinkedBank":             repeat([]float64{0, 1}, []int{10, 10}),
	})
	vars := NewVariableSet(ds)
	tips := TippingPoints(ds, vars, DefaultMinBucketSize, DefaultMinTippingRate)

	for _, outcome := range vars.Outcomes {
		byVar, ok := tips[outcome]
		if !ok {
			t.Fatalf("missing outcome %s", outcome)
		}
		for _, variable := range vars.Predictors {
			if _, ok := byVar[variable]; !ok {
				t.Fatalf("missing entry for (%s, %s)", outcome, variable)
			}
		}
	}
}

func TestTippingPointsFractionalValuesBucketByFloor(t *testing.T) {
	sessions := repeat([]float64{1.2, 1.9, 6.5}, []int{10, 10, 20})
	copies := append(
		repeat([]float64{0}, []int{20}),
		repeat([]float64{1}, []int{20})...,
	)

	ds := testDataset(t, map[string][]float64{
		models.OutcomeCopies: copies,
		"totalSessions":      sessions,
	})
	tips := TippingPoints(ds, NewVariableSet(ds), DefaultMinBucketSize, DefaultMinTippingRate)

	// 1.2 and 1.9 share bucket 1 (20 users, 0%); 6.5 lands in bucket 6.
	if got := tips[models.OutcomeCopies]["totalSessions"]; got != "6" {
		t.Fatalf("tipping point = %q, want %q", got, "6")
	}
}
