package goslides

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when the document lock could not be taken before the
// context expired.
var ErrLocked = errors.New("document is locked")

// lockRetryInterval is how often a blocked Store retries the lock.
const lockRetryInterval = 25 * time.Millisecond

// Store reads and writes one document file. Access is serialised across
// processes with a lock file next to the document, and saves replace the
// file atomically.
type Store struct {
	path string
	// Indent is passed to EncodeDocument. Default: two spaces.
	Indent string
}

// NewStore returns a store for the document at path.
func NewStore(path string) *Store {
	return &Store{path: path, Indent: "  "}
}

// Path returns the document path.
func (s *Store) Path() string { return s.path }

func (s *Store) lockPath() string { return s.path + ".lock" }

// Load reads the document under a shared lock.
func (s *Store) Load(ctx context.Context) (*Document, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	lock := flock.New(s.lockPath())
	ok, err := lock.TryRLockContext(ctx, lockRetryInterval)
	if err != nil || !ok {
		return nil, lockError(ctx, s.path, err)
	}
	defer lock.Unlock()

	doc, err := Open(s.path)
	if err != nil {
		return nil, err
	}
	Logger().Debug("document read", "path", s.path, "slides", len(doc.Slides))
	return doc, nil
}

// Save writes doc under an exclusive lock: the data goes to a temporary file
// in the same directory, is synced, and is then renamed over the target.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	data, err := EncodeDocument(doc, s.Indent)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := flock.New(s.lockPath())
	ok, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil || !ok {
		return lockError(ctx, s.path, err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	Logger().Info("document saved", "path", s.path, "slides", len(doc.Slides), "bytes", len(data))
	return nil
}

// LoadDeck reads the document and loads it into d.
func (s *Store) LoadDeck(ctx context.Context, d *Deck) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	d.LoadData(*doc)
	return nil
}

// SaveDeck serialises d and saves it.
func (s *Store) SaveDeck(ctx context.Context, d *Deck) error {
	doc := d.Serialise()
	return s.Save(ctx, &doc)
}

// lockError reports a lock that timed out as ErrLocked and anything else as
// a plain failure.
func lockError(ctx context.Context, path string, err error) error {
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return fmt.Errorf("%s: %w", path, ErrLocked)
}
