package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/convertstack/driver-engine/internal/engine"
	"github.com/convertstack/driver-engine/internal/metrics"
	"github.com/convertstack/driver-engine/internal/models"
	"github.com/convertstack/driver-engine/internal/store"
	"github.com/convertstack/driver-engine/internal/utils"
)

// AnalysisService fronts the pipeline for the HTTP API: it times runs,
// records metrics, and reads analysis history from the store.
type AnalysisService struct {
	logger    *slog.Logger
	pipeline  *engine.Pipeline
	history   store.AnalysisStore
	latencies *utils.LatencyTracker
}

// NewAnalysisService constructs the service facade.
func NewAnalysisService(logger *slog.Logger, pipeline *engine.Pipeline, history store.AnalysisStore) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:    logger,
		pipeline:  pipeline,
		history:   history,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// RunAnalysis executes the driver analysis over raw rows. Persistence
// happens inside the pipeline when a store is configured.
func (s *AnalysisService) RunAnalysis(ctx context.Context, rows []models.RawRow) (models.AnalysisResult, error) {
	if s.pipeline == nil {
		return models.AnalysisResult{}, utils.NewAppError("RunAnalysis", "pipeline not configured", nil)
	}

	s.logger.Debug("analysis requested", slog.Int("rows", len(rows)))

	start := time.Now()
	result, err := s.pipeline.Analyze(ctx, rows)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveAnalysis(duration, len(rows), metrics.OutcomeError)
		s.logger.Error("analysis failed", slog.Any("error", err))
		return models.AnalysisResult{}, utils.NewAppError("RunAnalysis", "analysis failed", err)
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, len(rows), metrics.OutcomeSuccess)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("analysis latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}

	return result, nil
}

// GetAnalysis fetches a stored analysis by id. ErrNotFound passes through
// unwrapped so callers can map it to a 404.
func (s *AnalysisService) GetAnalysis(ctx context.Context, id string) (models.AnalysisResult, error) {
	if s.history == nil {
		return models.AnalysisResult{}, store.ErrNotFound
	}
	result, err := s.history.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.AnalysisResult{}, err
		}
		return models.AnalysisResult{}, utils.WrapErr("GetAnalysis", err)
	}
	return result, nil
}

// ListAnalyses returns recent stored analyses, newest first.
func (s *AnalysisService) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisResult, error) {
	if s.history == nil {
		return nil, nil
	}
	results, err := s.history.ListAnalyses(ctx, limit)
	if err != nil {
		return nil, utils.WrapErr("ListAnalyses", err)
	}
	return results, nil
}

// LatencyP95 returns the current p95 analysis latency.
func (s *AnalysisService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
