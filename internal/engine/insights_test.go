package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/convertstack/driver-engine/internal/models"
)

const testRulePack = `
rules:
  - id: copies-linked-bank
    match:
      outcome: copies
      min_strength: Moderate
      variable_contains: [linkedbank]
    recommendations:
      - "Move bank linking earlier in onboarding"
  - id: any-strong
    match:
      min_strength: Strong
    recommendations:
      - "Prioritize the strongest driver"
`

func writeRulePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rule pack: %v", err)
	}
	return path
}

func TestInsightEngineMatchesRules(t *testing.T) {
	e, err := NewInsightEngine(writeRulePack(t, testRulePack), nil)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if e == nil {
		t.Fatal("expected a loaded engine")
	}

	drivers := []models.DriverRow{
		{Variable: "hasLinkedBank", Correlation: 0.4, TStat: 5, Significant: true, PredictiveStrength: StrengthStrong},
		{Variable: "totalSessions", Correlation: 0.1, TStat: 2, Significant: true, PredictiveStrength: StrengthFair},
	}

	recs := e.Recommend("copies", drivers)
	if len(recs) != 2 {
		t.Fatalf("expected both rules to fire, got %v", recs)
	}
	if recs[0] != "Move bank linking earlier in onboarding" {
		t.Fatalf("unexpected first recommendation: %q", recs[0])
	}
}

func TestInsightEngineOutcomeFilter(t *testing.T) {
	e, err := NewInsightEngine(writeRulePack(t, testRulePack), nil)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}

	drivers := []models.DriverRow{
		{Variable: "hasLinkedBank", PredictiveStrength: StrengthModerate},
	}

	// The linked-bank rule is scoped to copies; for deposits only the
	// fallback defaults remain (the Strong floor is unmet too).
	recs := e.Recommend("deposits", drivers)
	for _, rec := range recs {
		if rec == "Move bank linking earlier in onboarding" {
			t.Fatal("copies-scoped rule fired for deposits")
		}
	}
	if len(recs) == 0 {
		t.Fatal("expected default recommendations when no rule matches")
	}
}

func TestInsightEngineStrengthFloor(t *testing.T) {
	e, err := NewInsightEngine(writeRulePack(t, testRulePack), nil)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}

	weak := []models.DriverRow{
		{Variable: "hasLinkedBank", PredictiveStrength: StrengthWeak},
	}
	recs := e.Recommend("copies", weak)
	for _, rec := range recs {
		if rec == "Move bank linking earlier in onboarding" {
			t.Fatal("rule fired below its strength floor")
		}
	}
}

func TestInsightEngineNilSafe(t *testing.T) {
	// Missing path yields a nil engine whose Recommend still works.
	e, err := NewInsightEngine("", nil)
	if err != nil {
		t.Fatalf("empty path should not error: %v", err)
	}
	if e != nil {
		t.Fatal("empty path should yield a nil engine")
	}
	if recs := e.Recommend("copies", nil); len(recs) == 0 {
		t.Fatal("nil engine must fall back to defaults")
	}

	e, err = NewInsightEngine(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if e != nil {
		t.Fatal("missing file should yield a nil engine")
	}
}

func TestInsightEngineRejectsBadYAML(t *testing.T) {
	if _, err := NewInsightEngine(writeRulePack(t, "rules: [not closed"), nil); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}

func TestInsightEngineDeduplicates(t *testing.T) {
	pack := `
rules:
  - id: a
    recommendations: ["Same advice"]
  - id: b
    recommendations: ["Same advice", "Other advice"]
`
	e, err := NewInsightEngine(writeRulePack(t, pack), nil)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	recs := e.Recommend("copies", []models.DriverRow{{Variable: "x"}})
	if len(recs) != 2 {
		t.Fatalf("expected deduplicated recommendations, got %v", recs)
	}
}
