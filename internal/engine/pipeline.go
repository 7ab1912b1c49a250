package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/convertstack/driver-engine/internal/models"
	"github.com/convertstack/driver-engine/internal/normalize"
)

// Store abstracts persistence for completed analyses. The pipeline writes
// through it when configured; the engine itself holds no state between runs.
type Store interface {
	SaveAnalysis(ctx context.Context, result models.AnalysisResult) error
}

// Options tunes the analysis thresholds.
type Options struct {
	// MinBucketSize is the tipping-point minimum bucket membership.
	MinBucketSize int
	// MinTippingRate is the conversion rate a jump must reach to qualify.
	MinTippingRate float64
	// MaxRows caps the rows analyzed per run; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinBucketSize:  DefaultMinBucketSize,
		MinTippingRate: DefaultMinTippingRate,
	}
}

// Pipeline orchestrates the driver-analysis flow over one export snapshot.
type Pipeline struct {
	logger   *slog.Logger
	insights *InsightEngine
	store    Store
	opts     Options
}

// NewPipeline constructs an analysis pipeline. insights and store may be nil.
func NewPipeline(logger *slog.Logger, insights *InsightEngine, store Store, opts Options) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MinBucketSize <= 0 {
		opts.MinBucketSize = DefaultMinBucketSize
	}
	if opts.MinTippingRate <= 0 {
		opts.MinTippingRate = DefaultMinTippingRate
	}
	return &Pipeline{logger: logger, insights: insights, store: store, opts: opts}
}

// Analyze runs the full driver analysis over raw export rows: normalize,
// correlate, rank, detect tipping points, classify personas and aggregate.
// Correlation and tipping-point detection are independent and run
// concurrently over the shared immutable dataset.
func (p *Pipeline) Analyze(ctx context.Context, rows []models.RawRow) (models.AnalysisResult, error) {
	if len(rows) == 0 {
		return models.AnalysisResult{}, fmt.Errorf("no rows to analyze")
	}
	if p.opts.MaxRows > 0 && len(rows) > p.opts.MaxRows {
		p.logger.Warn("truncating analysis input",
			slog.Int("rows", len(rows)), slog.Int("max", p.opts.MaxRows))
		rows = rows[:p.opts.MaxRows]
	}

	ds := normalize.Normalize(rows)
	vars := NewVariableSet(ds)

	var (
		correlations  map[string]map[string]float64
		tippingPoints map[string]map[string]string
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		correlations = Correlate(ds, vars)
		return nil
	})
	g.Go(func() error {
		tippingPoints = TippingPoints(ds, vars, p.opts.MinBucketSize, p.opts.MinTippingRate)
		return nil
	})
	_ = g.Wait()

	personas := ClassifyAll(ds)
	summary := Summarize(ds, personas)

	regressions := make(map[string][]models.DriverRow, len(vars.Outcomes))
	recommendations := make(map[string][]string, len(vars.Outcomes))
	for _, outcome := range vars.Outcomes {
		drivers := rankDrivers(ds.N, correlations[outcome], tippingPoints[outcome])
		short := models.ShortOutcomeName(outcome)
		regressions[short] = drivers
		recommendations[short] = p.insights.Recommend(short, drivers)
	}

	result := models.AnalysisResult{
		AnalysisID:         uuid.NewString(),
		SummaryStats:       summary,
		CorrelationResults: correlations,
		RegressionResults:  regressions,
		TippingPoints:      tippingPoints,
		Recommendations:    recommendations,
		CreatedAt:          time.Now().UTC(),
	}

	if p.store != nil {
		if err := p.store.SaveAnalysis(ctx, result); err != nil {
			p.logger.Warn("failed to persist analysis", slog.Any("error", err))
		}
	}

	return result, nil
}

// rankDrivers scores every predictor for one outcome and sorts descending
// by |correlation|, tie-broken by name for deterministic output.
func rankDrivers(n int, correlations map[string]float64, tips map[string]string) []models.DriverRow {
	rows := make([]models.DriverRow, 0, len(correlations))
	for variable, r := range correlations {
		t := TStat(r, n)
		tip, ok := tips[variable]
		if !ok {
			tip = models.TippingPointNA
		}
		rows = append(rows, models.DriverRow{
			Variable:           variable,
			Correlation:        r,
			TStat:              t,
			Significant:        Significant(t),
			PredictiveStrength: PredictiveStrength(r, t),
			TippingPoint:       tip,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		ri, rj := math.Abs(rows[i].Correlation), math.Abs(rows[j].Correlation)
		if ri == rj {
			return rows[i].Variable < rows[j].Variable
		}
		return ri > rj
	})
	return rows
}
