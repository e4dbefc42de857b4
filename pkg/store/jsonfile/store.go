// Package jsonfile implements model.Model over one JSON file per collection.
// Writers hold an in-process mutex and an exclusive file lock; readers hold shared ones,
// so several processes may serve the same data directory.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/pagination"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	fileVersion   = "1"
	lockTimeout   = 3 * time.Second
	lockRetryWait = 100 * time.Millisecond
)

// ErrLocked is returned when the collection file lock cannot be acquired in time.
var ErrLocked = errors.New("collection file locked")

type fileData struct {
	Documents []model.Document `json:"documents"`
	Metadata  metadata         `json:"metadata"`
}

type metadata struct {
	Version    string    `json:"version"`
	Collection string    `json:"collection"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store is a file backed model.
type Store struct {
	def        model.Definition
	path       string
	fileLock   *flock.Flock
	mu         sync.RWMutex
	validator  *model.Validator
	pagination pagination.Config
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a store for def persisted at <dir>/<name>.json.
func New(dir string, def model.Definition, cfg pagination.Config, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	validator, err := model.NewValidator(def.Name, def.Schema)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, def.Name+".json")
	return &Store{
		def:        def,
		path:       path,
		fileLock:   flock.New(path + ".lock"),
		validator:  validator,
		pagination: cfg,
		logger:     logger.With("store", def.Name),
		now:        time.Now,
	}, nil
}

// Path returns the collection file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the file lock handle.
func (s *Store) Close() error {
	return s.fileLock.Close()
}

func (s *Store) Name() string {
	return s.def.Name
}

func (s *Store) Validate(ctx context.Context, doc model.Document) error {
	return s.validator.Validate(doc)
}

func (s *Store) Paginate(ctx context.Context, filter model.Filter, opts pagination.Options) (*pagination.Result[model.Document], error) {
	w := opts.Resolve(s.pagination)

	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Document, 0, len(data.Documents))
	for _, doc := range data.Documents {
		if filter.Match(doc) {
			matched = append(matched, doc)
		}
	}
	model.SortDocuments(matched, w.Sort)

	total := len(matched)
	start := min(w.Offset, total)
	end := total
	if w.Limit > 0 {
		end = min(start+w.Limit, total)
	}

	return pagination.NewResult(matched[start:end], total, w), nil
}

func (s *Store) FindByID(ctx context.Context, id string) (model.Document, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(data.Documents, id)
	if i < 0 {
		return nil, model.ErrNotFound
	}
	return data.Documents[i], nil
}

func (s *Store) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	docs, err := s.InsertMany(ctx, []model.Document{doc})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// InsertMany validates every document before writing any of them.
func (s *Store) InsertMany(ctx context.Context, docs []model.Document) ([]model.Document, error) {
	for _, doc := range docs {
		if err := s.validator.Validate(doc); err != nil {
			return nil, err
		}
	}

	created := make([]model.Document, len(docs))
	err := s.write(ctx, func(data *fileData) error {
		now := model.Timestamp(s.now())
		for i, doc := range docs {
			stored := doc.Client().Clone()
			stored[model.FieldID] = uuid.NewString()
			if s.def.Timestamps {
				stored[model.FieldCreatedAt] = now
				stored[model.FieldUpdatedAt] = now
			}
			data.Documents = append(data.Documents, stored)
			created[i] = stored.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("documents created", "count", len(created))
	return created, nil
}

func (s *Store) FindOneAndUpdate(ctx context.Context, id string, patch model.Document, opts model.UpdateOptions) (model.Document, error) {
	if opts.RunValidators {
		if err := s.validator.ValidateUpdate(patch); err != nil {
			return nil, err
		}
	}

	var result model.Document
	err := s.write(ctx, func(data *fileData) error {
		i := indexOf(data.Documents, id)
		if i < 0 {
			return model.ErrNotFound
		}

		doc := data.Documents[i]
		before := doc.Clone()

		doc.Apply(patch)
		if s.def.Timestamps {
			doc[model.FieldUpdatedAt] = model.Timestamp(s.now())
		}

		result = before
		if opts.ReturnUpdated {
			result = doc.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "id", id)
	return result, nil
}

func (s *Store) FindOneAndDelete(ctx context.Context, id string) (model.Document, error) {
	var removed model.Document
	err := s.write(ctx, func(data *fileData) error {
		i := indexOf(data.Documents, id)
		if i < 0 {
			return model.ErrNotFound
		}
		removed = data.Documents[i]
		data.Documents = append(data.Documents[:i], data.Documents[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document deleted", "id", id)
	return removed, nil
}

func (s *Store) read(ctx context.Context) (*fileData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.lock(ctx, s.fileLock.TryRLockContext)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.load()
}

// write loads the collection, applies fn and saves the result when fn succeeds.
func (s *Store) write(ctx context.Context, fn func(*fileData) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.lock(ctx, s.fileLock.TryLockContext)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return s.save(data)
}

func (s *Store) lock(ctx context.Context, try func(context.Context, time.Duration) (bool, error)) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := try(ctx, lockRetryWait)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocked, err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return func() { _ = s.fileLock.Unlock() }, nil
}

func (s *Store) load() (*fileData, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(raw) == 0) {
		now := s.now().UTC()
		return &fileData{
			Documents: []model.Document{},
			Metadata: metadata{
				Version:    fileVersion,
				Collection: s.def.Name,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidDocument, s.path, err)
	}
	if data.Documents == nil {
		data.Documents = []model.Document{}
	}
	return &data, nil
}

func (s *Store) save(data *fileData) error {
	data.Metadata.UpdatedAt = s.now().UTC()

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func indexOf(docs []model.Document, id string) int {
	for i, doc := range docs {
		if doc.ID() == id {
			return i
		}
	}
	return -1
}

var _ model.Model = (*Store)(nil)
