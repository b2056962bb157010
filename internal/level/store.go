package level

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/samdwyer/shapetrail/internal/config"
)

// Store persists levels by id.
type Store interface {
	// Save validates and writes l, replacing any level with the same id.
	Save(ctx context.Context, l *Level) error
	// Load returns the level with the given id or ErrNotFound. Stored
	// levels that fail validation are returned as errors.
	Load(ctx context.Context, id uuid.UUID) (*Level, error)
	// List returns a summary of every stored level sorted by name.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes a level. Deleting a missing level returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// OpenStore opens the store selected by cfg.
func OpenStore(cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case config.StoreFile:
		return NewFileStore(cfg.LevelsDir)
	case config.StoreBadger:
		return OpenBadgerStore(BadgerConfig{Path: cfg.BadgerPath, SyncWrites: true, Logger: logger})
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// LoadAll loads every level in s.
func LoadAll(ctx context.Context, s Store) ([]*Level, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	levels := make([]*Level, 0, len(summaries))
	for _, sum := range summaries {
		l, err := s.Load(ctx, sum.ID)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, nil
}

func prepare(l *Level) error {
	l.EnsureDefaults()
	return l.Validate()
}
