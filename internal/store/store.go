// Package store persists completed analyses so the dashboard can re-fetch
// them without re-running the engine. The interface is injected into the
// pipeline and service; the analysis core itself never touches persistence.
package store

import (
	"context"
	"errors"

	"github.com/convertstack/driver-engine/internal/models"
)

// ErrNotFound signals that an analysis id is unknown.
var ErrNotFound = errors.New("analysis not found")

// AnalysisStore defines the minimal persistence operations the service needs.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, result models.AnalysisResult) error
	GetAnalysis(ctx context.Context, id string) (models.AnalysisResult, error)
	ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisResult, error)
	Close() error
}

// NoopStore implements AnalysisStore but never stores data.
type NoopStore struct{}

// SaveAnalysis discards the result and returns nil.
func (NoopStore) SaveAnalysis(context.Context, models.AnalysisResult) error { return nil }

// GetAnalysis always returns ErrNotFound.
func (NoopStore) GetAnalysis(context.Context, string) (models.AnalysisResult, error) {
	return models.AnalysisResult{}, ErrNotFound
}

// ListAnalyses returns an empty history.
func (NoopStore) ListAnalyses(context.Context, int) ([]models.AnalysisResult, error) {
	return nil, nil
}

// Close is a no-op.
func (NoopStore) Close() error { return nil }
