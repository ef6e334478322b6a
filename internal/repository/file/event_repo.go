// Package file stores the event catalog in a single encoded text file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"eventcatalog/internal/codec"
	"eventcatalog/internal/domain"
)

const filePerm = 0o644

type eventRepository struct {
	path string
}

// NewEventRepository returns an EventRepository backed by the file at path.
// The file does not need to exist yet.
func NewEventRepository(path string) domain.EventRepository {
	return &eventRepository{path: path}
}

func (r *eventRepository) Load(ctx context.Context) ([]*domain.Event, []domain.SkippedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	events, skipped, err := codec.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", r.path, err)
	}
	return events, skipped, nil
}

// Save writes the catalog to a temporary file in the same directory and
// renames it over the target, so readers see either the old or the new file.
func (r *eventRepository) Save(ctx context.Context, events []*domain.Event) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = codec.Encode(tmp, events); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace %s: %w", r.path, err)
	}
	return nil
}
