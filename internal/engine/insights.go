package engine

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/convertstack/driver-engine/internal/models"
)

// InsightEngine turns ranked drivers into dashboard recommendation strings
// using a YAML rule pack.
type InsightEngine struct {
	rules  []InsightRule
	logger *slog.Logger
}

// InsightRule is a single recommendation rule.
type InsightRule struct {
	ID              string       `yaml:"id"`
	Match           InsightMatch `yaml:"match"`
	Recommendations []string     `yaml:"recommendations"`
}

// InsightMatch defines optional attributes for rule matching. Empty fields
// match anything.
type InsightMatch struct {
	Outcome          string   `yaml:"outcome"`      // short outcome name
	MinStrength      string   `yaml:"min_strength"` // predictive-strength floor
	VariableContains []string `yaml:"variable_contains"`
}

// InsightConfigFile is the YAML root structure.
type InsightConfigFile struct {
	Rules []InsightRule `yaml:"rules"`
}

// NewInsightEngine loads rules from the provided path. An empty or missing
// path returns a nil engine, which is safe to call.
func NewInsightEngine(path string, logger *slog.Logger) (*InsightEngine, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg InsightConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightEngine{rules: cfg.Rules, logger: logger}, nil
}

// Recommend produces recommendations for one outcome from its ranked
// drivers. Falls back to defaults when no rule matches.
func (e *InsightEngine) Recommend(outcome string, drivers []models.DriverRow) []string {
	if e == nil {
		return defaultRecommendations()
	}

	matched := make([]string, 0)
	for _, rule := range e.rules {
		if rule.Match.Outcome != "" && !strings.EqualFold(rule.Match.Outcome, outcome) {
			continue
		}
		if !driversMatch(rule.Match, drivers) {
			continue
		}
		matched = appendUnique(matched, rule.Recommendations...)
	}
	if len(matched) == 0 {
		return defaultRecommendations()
	}
	return matched
}

func driversMatch(match InsightMatch, drivers []models.DriverRow) bool {
	floor := strengthRank(match.MinStrength)
	for _, driver := range drivers {
		if match.MinStrength != "" && strengthRank(driver.PredictiveStrength) < floor {
			continue
		}
		if len(match.VariableContains) == 0 {
			return true
		}
		variable := strings.ToLower(driver.Variable)
		for _, kw := range match.VariableContains {
			if kw != "" && strings.Contains(variable, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

// strengthRank orders the predictive-strength labels for floor comparisons.
func strengthRank(label string) int {
	switch label {
	case StrengthVeryStrong:
		return 6
	case StrengthStrong:
		return 5
	case StrengthModerate:
		return 4
	case StrengthFair:
		return 3
	case StrengthWeak:
		return 2
	case StrengthMinimal:
		return 1
	default:
		return 0
	}
}

func defaultRecommendations() []string {
	return []string{
		"Review the top-ranked drivers for activation experiments",
		"Compare tipping points against current onboarding milestones",
	}
}

func appendUnique(existing []string, additions ...string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		seen[rec] = struct{}{}
	}
	for _, item := range additions {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		existing = append(existing, item)
		seen[item] = struct{}{}
	}
	return existing
}
