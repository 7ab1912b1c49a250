package models

// RawRow is a single exported record keyed by whatever column names the
// source used (legacy prefixed exports or camelCase database columns).
// Values are untyped scalars straight from a CSV parse or a JSON body.
type RawRow map[string]any

// Outcome variable names. These are the three behaviors the engine predicts;
// an outcome is never tested as its own predictor.
const (
	OutcomeCopies        = "totalCopies"
	OutcomeDeposits      = "totalDeposits"
	OutcomeSubscriptions = "totalSubscriptions"
)

// Outcomes returns the fixed outcome list in report order.
func Outcomes() []string {
	return []string{OutcomeCopies, OutcomeDeposits, OutcomeSubscriptions}
}

// ShortOutcomeName maps an outcome variable to the key used in the
// regressionResults and recommendations sections of a report.
func ShortOutcomeName(outcome string) string {
	switch outcome {
	case OutcomeCopies:
		return "copies"
	case OutcomeDeposits:
		return "deposits"
	case OutcomeSubscriptions:
		return "subscriptions"
	default:
		return outcome
	}
}

// Dataset is a columnar snapshot of normalized user records. Every analysis
// step reads one column across all rows at a time, so values live in
// per-variable slices rather than per-user structs. A Dataset is immutable
// once built and is discarded at the end of a run.
type Dataset struct {
	// N is the number of user records.
	N int

	// Numeric holds one float64 slice of length N per numeric variable,
	// outcomes included. Normalization guarantees every value is finite.
	Numeric map[string][]float64

	// Categorical holds one string slice of length N per demographic field.
	// Missing or unrecognized values are empty strings.
	Categorical map[string][]string

	// Predictors lists the catalogued predictor variables followed by any
	// discovered extra numeric columns. Outcomes never appear here.
	Predictors []string
}

// Column returns the values for a numeric variable, or nil when unknown.
func (d *Dataset) Column(name string) []float64 {
	if d == nil {
		return nil
	}
	return d.Numeric[name]
}

// Value returns the numeric value for record i, or 0 when the variable is
// unknown or the index is out of range.
func (d *Dataset) Value(name string, i int) float64 {
	col := d.Column(name)
	if i < 0 || i >= len(col) {
		return 0
	}
	return col[i]
}
