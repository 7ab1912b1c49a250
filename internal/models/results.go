package models

import "time"

// TippingPointNA is reported when no qualifying threshold exists for a
// (variable, outcome) pair.
const TippingPointNA = "N/A"

// Persona is a mutually exclusive behavioral segment label.
type Persona string

const (
	PersonaPremium           Persona = "premium"
	PersonaCore              Persona = "core"
	PersonaActivationTargets Persona = "activationTargets"
	PersonaNonActivated      Persona = "nonActivated"
	PersonaUnclassified      Persona = "unclassified"
)

// Personas returns every label in cascade priority order.
func Personas() []Persona {
	return []Persona{
		PersonaPremium,
		PersonaCore,
		PersonaActivationTargets,
		PersonaNonActivated,
		PersonaUnclassified,
	}
}

// DriverRow is one ranked predictor for a single outcome.
type DriverRow struct {
	Variable           string  `json:"variable"`
	Correlation        float64 `json:"correlation"`
	TStat              float64 `json:"tStat"`
	Significant        bool    `json:"significant"`
	PredictiveStrength string  `json:"predictiveStrength"`
	TippingPoint       string  `json:"tippingPoint"`
}

// PersonaBreakdown counts one persona across the analyzed population.
type PersonaBreakdown struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// DemographicBreakdown tallies the non-empty values of one categorical field.
type DemographicBreakdown struct {
	Counts         map[string]int `json:"counts"`
	TotalResponses int            `json:"totalResponses"`
}

// SummaryStats carries the top-line numbers the dashboard renders first.
type SummaryStats struct {
	TotalUsers       int                             `json:"totalUsers"`
	LinkedBankRate   float64                         `json:"linkedBankRate"`
	FirstCopyRate    float64                         `json:"firstCopyRate"`
	DepositRate      float64                         `json:"depositRate"`
	SubscriptionRate float64                         `json:"subscriptionRate"`
	Demographics     map[string]DemographicBreakdown `json:"demographics"`
	Personas         map[Persona]PersonaBreakdown    `json:"personas"`
}

// AnalysisResult is the complete output of one analysis run.
//
// CorrelationResults is keyed outcome -> variable -> Pearson r.
// RegressionResults is keyed short outcome name -> drivers sorted descending
// by |correlation|. TippingPoints is keyed outcome -> variable -> integer
// bucket value as a string, or TippingPointNA.
type AnalysisResult struct {
	AnalysisID         string                        `json:"analysisId"`
	SummaryStats       SummaryStats                  `json:"summaryStats"`
	CorrelationResults map[string]map[string]float64 `json:"correlationResults"`
	RegressionResults  map[string][]DriverRow        `json:"regressionResults"`
	TippingPoints      map[string]map[string]string  `json:"tippingPoints"`
	Recommendations    map[string][]string           `json:"recommendations,omitempty"`
	CreatedAt          time.Time                     `json:"createdAt"`
}
