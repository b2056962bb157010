package level

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/samdwyer/shapetrail/internal/ctxlog"
)

// watchDebounce coalesces bursts of file events into one refresh.
const watchDebounce = 150 * time.Millisecond

// FileStore keeps one JSON file per level, named <id>.json.
type FileStore struct {
	dir string
}

// NewFileStore opens dir, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("levels directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create levels directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".json")
}

// Save writes l atomically through a temporary file.
func (s *FileStore) Save(ctx context.Context, l *Level) error {
	if err := prepare(l); err != nil {
		return err
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode level %s: %w", l.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".level-*.tmp")
	if err != nil {
		return fmt.Errorf("save level %s: %w", l.ID, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save level %s: %w", l.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save level %s: %w", l.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(l.ID)); err != nil {
		return fmt.Errorf("save level %s: %w", l.ID, err)
	}

	ctxlog.FromContext(ctx).Info("level saved", "id", l.ID, "name", l.LevelName, "tiles", len(l.Shapes))
	return nil
}

// Load reads the level with the given id.
func (s *FileStore) Load(_ context.Context, id uuid.UUID) (*Level, error) {
	l, err := Load[Level](os.DirFS(s.dir), id.String()+".json")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("load level %s: %w", id, err)
	}
	return &l, nil
}

// List reads every level file in the directory. Files that fail to parse
// are skipped with a warning.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}

	logger := ctxlog.FromContext(ctx)
	fsys := os.DirFS(s.dir)
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isLevelFile(e.Name()) {
			continue
		}
		l, err := Load[Level](fsys, e.Name())
		if err != nil {
			logger.Warn("skipping unreadable level", "file", e.Name(), "error", err)
			continue
		}
		out = append(out, l.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

// Delete removes the level file.
func (s *FileStore) Delete(_ context.Context, id uuid.UUID) error {
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

// Watch calls onChange after level files in the directory are created,
// written, removed or renamed. Bursts are coalesced. Watching stops when
// ctx is canceled.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	go s.processEvents(ctx, w, onChange)
	return nil
}

func (s *FileStore) processEvents(ctx context.Context, w *fsnotify.Watcher, onChange func()) {
	defer w.Close()
	logger := ctxlog.FromContext(ctx)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !isLevelFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}
		case <-timer.C:
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("level watcher error", "dir", s.dir, "error", err)
		}
	}
}

func isLevelFile(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".")
}

func sortSummaries(out []Summary) {
	slices.SortFunc(out, func(a, b Summary) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
