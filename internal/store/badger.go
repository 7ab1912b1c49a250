package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/convertstack/driver-engine/internal/models"
)

const analysisPrefix = "analysis/"

// BadgerConfig holds settings for the embedded result store.
type BadgerConfig struct {
	// Path is the directory for database files; ignored when InMemory.
	Path string
	// InMemory disables disk persistence; used by tests.
	InMemory bool
	// SyncWrites trades write latency for durability.
	SyncWrites bool
	// Logger receives BadgerDB's internal logging; nil disables it.
	Logger *slog.Logger
}

// BadgerStore is an AnalysisStore backed by an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) the database per the configuration.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, errors.New("store path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// SaveAnalysis writes one result, keyed by its analysis id.
func (s *BadgerStore) SaveAnalysis(ctx context.Context, result models.AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if result.AnalysisID == "" {
		return errors.New("analysis id is required")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(analysisPrefix+result.AnalysisID), payload)
	})
}

// GetAnalysis fetches one result by id, returning ErrNotFound when absent.
func (s *BadgerStore) GetAnalysis(ctx context.Context, id string) (models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := ctx.Err(); err != nil {
		return result, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(analysisPrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	return result, err
}

// ListAnalyses returns up to limit results, newest first.
func (s *BadgerStore) ListAnalyses(ctx context.Context, limit int) ([]models.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var results []models.AnalysisResult
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(analysisPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var result models.AnalysisResult
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &result)
			})
			if err != nil {
				return err
			}
			results = append(results, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
