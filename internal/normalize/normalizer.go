package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/convertstack/driver-engine/internal/models"
)

// Normalize converts heterogeneous raw export rows into a columnar dataset.
// It is a pure function: unparsable numeric values collapse to 0, missing
// categoricals to "", and it never fails.
//
// Beyond the fixed catalogue, the first row is scanned for purely numeric
// columns that are neither catalogued nor demographic; any found are added
// as extra predictors across every record, so the predictor set grows with
// the export schema.
func Normalize(rows []models.RawRow) *models.Dataset {
	n := len(rows)
	ds := &models.Dataset{
		N:           n,
		Numeric:     make(map[string][]float64, len(numericFields)+2),
		Categorical: make(map[string][]string, len(demographicFields)),
	}

	for _, f := range numericFields {
		col := make([]float64, n)
		for i, row := range rows {
			col[i] = coerceNumber(lookupAlias(row, f.aliases))
		}
		ds.Numeric[f.name] = col
	}

	for _, f := range demographicFields {
		col := make([]string, n)
		for i, row := range rows {
			col[i] = coerceString(lookupAlias(row, f.aliases))
		}
		ds.Categorical[f.name] = col
	}

	// Derived ordinals from the bracket vocabularies.
	incomeCol := make([]float64, n)
	netWorthCol := make([]float64, n)
	for i := 0; i < n; i++ {
		incomeCol[i] = bracketOrdinal(incomeBrackets, ds.Categorical["incomeBracket"][i])
		netWorthCol[i] = bracketOrdinal(netWorthBrackets, ds.Categorical["netWorthBracket"][i])
	}
	ds.Numeric[incomeEnumField] = incomeCol
	ds.Numeric[netWorthEnumField] = netWorthCol

	extras := discoverExtraColumns(rows)
	for _, name := range extras {
		col := make([]float64, n)
		for i, row := range rows {
			col[i] = coerceNumber(row[name])
		}
		ds.Numeric[name] = col
	}

	outcomes := make(map[string]struct{}, 3)
	for _, o := range models.Outcomes() {
		outcomes[o] = struct{}{}
	}
	for _, f := range numericFields {
		if _, isOutcome := outcomes[f.name]; isOutcome {
			continue
		}
		ds.Predictors = append(ds.Predictors, f.name)
	}
	ds.Predictors = append(ds.Predictors, incomeEnumField, netWorthEnumField)
	ds.Predictors = append(ds.Predictors, extras...)

	return ds
}

// lookupAlias returns the first non-nil value among the aliases.
func lookupAlias(row models.RawRow, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && v != nil {
			return v
		}
	}
	return nil
}

// discoverExtraColumns scans the first row for uncatalogued, non-demographic
// columns whose value is purely numeric. Results are sorted for determinism.
func discoverExtraColumns(rows []models.RawRow) []string {
	if len(rows) == 0 {
		return nil
	}
	claimed := cataloguedColumns()
	var extras []string
	for name, value := range rows[0] {
		if _, ok := claimed[name]; ok {
			continue
		}
		if !isNumericValue(value) {
			continue
		}
		extras = append(extras, name)
	}
	sort.Strings(extras)
	return extras
}

// isNumericValue reports whether a raw value is a number or a purely numeric
// string. Booleans are coercible but do not trigger discovery.
func isNumericValue(v any) bool {
	switch t := v.(type) {
	case float64, float32, int, int32, int64:
		return true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}

// coerceNumber applies the canonical numeric coercion: nil/empty/unparsable
// values become 0, boolean-like values become 0 or 1, everything else parses
// as a float. The result is always finite.
func coerceNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case float64:
		return finiteOrZero(t)
	case float32:
		return finiteOrZero(float64(t))
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return finiteOrZero(f)
		}
		if strings.EqualFold(s, "true") {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// coerceString renders a raw categorical value as a trimmed string, or ""
// when missing.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
