package engine

import (
	"math"
	"testing"

	"github.com/convertstack/driver-engine/internal/models"
	"github.com/convertstack/driver-engine/internal/normalize"
)

func TestSummarizeRates(t *testing.T) {
	rows := []models.RawRow{
		{"hasLinkedBank": 1, "totalCopies": 2, "totalDeposits": 1, "totalSubscriptions": 1},
		{"hasLinkedBank": 1, "totalCopies": 1},
		{"hasLinkedBank": 0},
		{},
	}
	ds := normalize.Normalize(rows)
	stats := Summarize(ds, ClassifyAll(ds))

	if stats.TotalUsers != 4 {
		t.Fatalf("totalUsers = %d, want 4", stats.TotalUsers)
	}
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"linkedBankRate", stats.LinkedBankRate, 0.5},
		{"firstCopyRate", stats.FirstCopyRate, 0.5},
		{"depositRate", stats.DepositRate, 0.25},
		{"subscriptionRate", stats.SubscriptionRate, 0.25},
	}
	for _, tc := range cases {
		if math.Abs(tc.got-tc.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestSummarizePersonaCountsConserved(t *testing.T) {
	rows := []models.RawRow{
		{"totalSubscriptions": 1},
		{"totalDeposits": 1},
		{"totalProfileViews": 3},
		{},
		{"totalCopies": 1},
	}
	ds := normalize.Normalize(rows)
	stats := Summarize(ds, ClassifyAll(ds))

	total := 0
	for _, label := range models.Personas() {
		breakdown, ok := stats.Personas[label]
		if !ok {
			t.Fatalf("persona %q missing from summary", label)
		}
		total += breakdown.Count
	}
	if total != stats.TotalUsers {
		t.Fatalf("persona counts sum to %d, want %d", total, stats.TotalUsers)
	}

	if got := stats.Personas[models.PersonaPremium].Percent; math.Abs(got-20) > 1e-9 {
		t.Fatalf("premium percent = %v, want 20", got)
	}
}

func TestSummarizeDemographicsSkipMissing(t *testing.T) {
	rows := []models.RawRow{
		{"gender": "female", "platform": "ios"},
		{"gender": "male"},
		{"gender": ""},
	}
	ds := normalize.Normalize(rows)
	stats := Summarize(ds, ClassifyAll(ds))

	gender := stats.Demographics["gender"]
	if gender.TotalResponses != 2 {
		t.Fatalf("gender responses = %d, want 2", gender.TotalResponses)
	}
	if gender.Counts["female"] != 1 || gender.Counts["male"] != 1 {
		t.Fatalf("gender counts = %v", gender.Counts)
	}

	platform := stats.Demographics["platform"]
	if platform.TotalResponses != 1 {
		t.Fatalf("platform responses = %d, want 1", platform.TotalResponses)
	}
}

func TestSummarizeEmptyDataset(t *testing.T) {
	ds := normalize.Normalize(nil)
	stats := Summarize(ds, nil)

	if stats.TotalUsers != 0 {
		t.Fatalf("totalUsers = %d, want 0", stats.TotalUsers)
	}
	if stats.LinkedBankRate != 0 || stats.FirstCopyRate != 0 {
		t.Fatal("rates over an empty dataset must be 0")
	}
	for _, label := range models.Personas() {
		if b := stats.Personas[label]; b.Count != 0 || b.Percent != 0 {
			t.Fatalf("persona %q should be zero-filled, got %+v", label, b)
		}
	}
}
