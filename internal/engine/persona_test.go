package engine

import (
	"testing"

	"github.com/convertstack/driver-engine/internal/models"
	"github.com/convertstack/driver-engine/internal/normalize"
)

func TestClassifyCascade(t *testing.T) {
	cases := []struct {
		name string
		row  models.RawRow
		want models.Persona
	}{
		{
			"subscription wins over everything",
			models.RawRow{"totalSubscriptions": 2, "totalDeposits": 5, "totalCopies": 3},
			models.PersonaPremium,
		},
		{
			"active subscription alone is premium",
			models.RawRow{"activeSubscriptions": 1},
			models.PersonaPremium,
		},
		{
			"deposits without subscription is core",
			models.RawRow{"totalDeposits": 1, "totalCopies": 4},
			models.PersonaCore,
		},
		{
			"browsing without copying is an activation target",
			models.RawRow{"totalProfileViews": 6},
			models.PersonaActivationTargets,
		},
		{
			"portfolio views also mark activation targets",
			models.RawRow{"totalPortfolioViews": 2, "totalFeedViews": 10},
			models.PersonaActivationTargets,
		},
		{
			"no activity at all is non-activated",
			models.RawRow{"totalSessions": 3},
			models.PersonaNonActivated,
		},
		{
			"copies without deposits or views falls through",
			models.RawRow{"totalCopies": 2},
			models.PersonaUnclassified,
		},
		{
			"feed views only falls through",
			models.RawRow{"totalFeedViews": 5},
			models.PersonaUnclassified,
		},
	}

	for _, tc := range cases {
		ds := normalize.Normalize([]models.RawRow{tc.row})
		if got := Classify(ds, 0); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyAllPopulation(t *testing.T) {
	// 20 users: 1-5 hold subscriptions, 6-12 deposited but never
	// subscribed, the rest only browsed. Priority order must put exactly
	// users 1-5 in premium and 6-12 in core regardless of other activity.
	var rows []models.RawRow
	for i := 0; i < 5; i++ {
		rows = append(rows, models.RawRow{"totalSubscriptions": 1, "totalDeposits": 2, "totalCopies": 1})
	}
	for i := 0; i < 7; i++ {
		rows = append(rows, models.RawRow{"totalDeposits": 1, "totalCopies": 1})
	}
	for i := 0; i < 8; i++ {
		rows = append(rows, models.RawRow{"totalProfileViews": 1 + i})
	}

	ds := normalize.Normalize(rows)
	personas := ClassifyAll(ds)

	for i := 0; i < 5; i++ {
		if personas[i] != models.PersonaPremium {
			t.Fatalf("user %d = %q, want %q", i+1, personas[i], models.PersonaPremium)
		}
	}
	for i := 5; i < 12; i++ {
		if personas[i] != models.PersonaCore {
			t.Fatalf("user %d = %q, want %q", i+1, personas[i], models.PersonaCore)
		}
	}

	counts := make(map[models.Persona]int)
	for _, p := range personas {
		counts[p]++
	}
	if counts[models.PersonaPremium] != 5 {
		t.Fatalf("premium = %d, want 5", counts[models.PersonaPremium])
	}
	if counts[models.PersonaCore] != 7 {
		t.Fatalf("core = %d, want 7", counts[models.PersonaCore])
	}
}

func TestClassifyIsTotal(t *testing.T) {
	rows := []models.RawRow{
		{}, // completely empty record
		{"totalCopies": 1, "totalFeedViews": 3},
		{"totalVideoViews": 1},
	}
	ds := normalize.Normalize(rows)
	personas := ClassifyAll(ds)

	if len(personas) != len(rows) {
		t.Fatalf("got %d labels for %d records", len(personas), len(rows))
	}
	valid := make(map[models.Persona]struct{})
	for _, p := range models.Personas() {
		valid[p] = struct{}{}
	}
	for i, p := range personas {
		if _, ok := valid[p]; !ok {
			t.Fatalf("record %d received unknown label %q", i, p)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	row := models.RawRow{"totalDeposits": 1, "totalProfileViews": 4}
	ds := normalize.Normalize([]models.RawRow{row})

	first := Classify(ds, 0)
	for i := 0; i < 10; i++ {
		if got := Classify(ds, 0); got != first {
			t.Fatalf("classification changed between runs: %q then %q", first, got)
		}
	}
}
