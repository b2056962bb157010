package level

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/samdwyer/shapetrail/internal/ctxlog"
)

const keyPrefix = "level/"

// BadgerConfig holds options for a badger-backed store.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string
	// InMemory keeps everything in RAM. Useful for tests.
	InMemory bool
	// SyncWrites flushes every commit to disk.
	SyncWrites bool
	// Logger receives badger's internal logs. Nil disables them.
	Logger *slog.Logger
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore keeps levels as JSON values under level/<id> keys.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens or creates the database described by cfg.
func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func levelKey(id uuid.UUID) []byte {
	return []byte(keyPrefix + id.String())
}

// Save writes l under its id.
func (s *BadgerStore) Save(ctx context.Context, l *Level) error {
	if err := prepare(l); err != nil {
		return err
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode level %s: %w", l.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(levelKey(l.ID), data)
	})
	if err != nil {
		return fmt.Errorf("save level %s: %w", l.ID, err)
	}
	ctxlog.FromContext(ctx).Info("level saved", "id", l.ID, "name", l.LevelName, "tiles", len(l.Shapes))
	return nil
}

// Load reads the level with the given id.
func (s *BadgerStore) Load(_ context.Context, id uuid.UUID) (*Level, error) {
	var l Level
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(levelKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &l)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", id, err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("load level %s: %w", id, err)
	}
	return &l, nil
}

// List scans every level key.
func (s *BadgerStore) List(ctx context.Context) ([]Summary, error) {
	var out []Summary
	prefix := []byte(keyPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var l Level
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &l)
			}); err != nil {
				ctxlog.FromContext(ctx).Warn("skipping unreadable level", "key", string(it.Item().Key()), "error", err)
				continue
			}
			out = append(out, l.Summarize())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	sortSummaries(out)
	return out, nil
}

// Delete removes the level with the given id.
func (s *BadgerStore) Delete(_ context.Context, id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(levelKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}
		return txn.Delete(levelKey(id))
	})
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
