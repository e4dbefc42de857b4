// Package postgres implements model.Model over a shared JSONB documents table.
// Each model is a collection of rows; filters run as JSONB containment and
// case-insensitive regular expressions.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/pagination"
	"github.com/JaimeStill/crudify/pkg/query"
	"github.com/JaimeStill/crudify/pkg/repository"
	"github.com/google/uuid"
)

// ErrDuplicate is returned when an insert collides with an existing id.
var ErrDuplicate = errors.New("duplicate document")

// Store is a Postgres backed model.
type Store struct {
	def        model.Definition
	db         *sql.DB
	validator  *model.Validator
	pagination pagination.Config
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a store for def. The documents table must exist; see Migrate.
func New(db *sql.DB, def model.Definition, cfg pagination.Config, logger *slog.Logger) (*Store, error) {
	validator, err := model.NewValidator(def.Name, def.Schema)
	if err != nil {
		return nil, err
	}

	return &Store{
		def:        def,
		db:         db,
		validator:  validator,
		pagination: cfg,
		logger:     logger.With("store", def.Name),
		now:        time.Now,
	}, nil
}

func (s *Store) Name() string {
	return s.def.Name
}

func (s *Store) Validate(ctx context.Context, doc model.Document) error {
	return s.validator.Validate(doc)
}

func (s *Store) Paginate(ctx context.Context, filter model.Filter, opts pagination.Options) (*pagination.Result[model.Document], error) {
	w := opts.Resolve(s.pagination)

	qb := query.NewBuilder(s.def.Name)

	fields := make([]string, 0, len(filter))
	for field := range filter {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	for _, field := range fields {
		if p, ok := filter[field].(*model.Pattern); ok {
			qb.WhereMatches(field, p.Expr)
			continue
		}
		qb.WhereEquals(field, filter[field])
	}
	qb.OrderBy(w.Sort...)

	countSQL, countArgs, err := qb.BuildCount()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", s.def.Name, err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count %s: %w", s.def.Name, err)
	}

	pageSQL, pageArgs, err := qb.BuildPage(w.Limit, w.Offset)
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", s.def.Name, err)
	}

	docs, err := repository.QueryMany(ctx, s.db, pageSQL, pageArgs, s.scan)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.def.Name, err)
	}

	return pagination.NewResult(docs, total, w), nil
}

func (s *Store) FindByID(ctx context.Context, id string) (model.Document, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrNotFound
	}

	q := fmt.Sprintf("SELECT %s FROM %s WHERE collection = $1 AND id = $2", query.Columns, query.Table)

	doc, err := repository.QueryOne(ctx, s.db, q, []any{s.def.Name, uid}, s.scan)
	if err != nil {
		return nil, repository.MapError(err, model.ErrNotFound, ErrDuplicate)
	}
	return doc, nil
}

func (s *Store) Create(ctx context.Context, doc model.Document) (model.Document, error) {
	docs, err := s.InsertMany(ctx, []model.Document{doc})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// InsertMany validates every document, then inserts them in one transaction.
func (s *Store) InsertMany(ctx context.Context, docs []model.Document) ([]model.Document, error) {
	for _, doc := range docs {
		if err := s.validator.Validate(doc); err != nil {
			return nil, err
		}
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (id, collection, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING %s`, query.Table, query.Columns)

	created, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) ([]model.Document, error) {
		now := s.now().UTC()
		out := make([]model.Document, 0, len(docs))
		for _, doc := range docs {
			data, err := json.Marshal(doc.Client())
			if err != nil {
				return nil, fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
			}
			stored, err := repository.QueryOne(ctx, tx, q, []any{uuid.New(), s.def.Name, data, now}, s.scan)
			if err != nil {
				return nil, err
			}
			out = append(out, stored)
		}
		return out, nil
	})
	if err != nil {
		return nil, repository.MapError(err, model.ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("documents created", "count", len(created))
	return created, nil
}

func (s *Store) FindOneAndUpdate(ctx context.Context, id string, patch model.Document, opts model.UpdateOptions) (model.Document, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrNotFound
	}

	if opts.RunValidators {
		if err := s.validator.ValidateUpdate(patch); err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(patch.Client())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
	}

	selectQ := fmt.Sprintf(
		"SELECT %s FROM %s WHERE collection = $1 AND id = $2 FOR UPDATE",
		query.Columns, query.Table,
	)
	updateQ := fmt.Sprintf(`
		UPDATE %s
		SET data = data || $3::jsonb, updated_at = $4
		WHERE collection = $1 AND id = $2
		RETURNING %s`, query.Table, query.Columns)

	doc, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (model.Document, error) {
		before, err := repository.QueryOne(ctx, tx, selectQ, []any{s.def.Name, uid}, s.scan)
		if err != nil {
			return nil, err
		}

		after, err := repository.QueryOne(ctx, tx, updateQ, []any{s.def.Name, uid, data, s.now().UTC()}, s.scan)
		if err != nil {
			return nil, err
		}

		if opts.ReturnUpdated {
			return after, nil
		}
		return before, nil
	})
	if err != nil {
		return nil, repository.MapError(err, model.ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("document updated", "id", id)
	return doc, nil
}

func (s *Store) FindOneAndDelete(ctx context.Context, id string) (model.Document, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrNotFound
	}

	q := fmt.Sprintf(
		"DELETE FROM %s WHERE collection = $1 AND id = $2 RETURNING %s",
		query.Table, query.Columns,
	)

	doc, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (model.Document, error) {
		return repository.QueryOne(ctx, tx, q, []any{s.def.Name, uid}, s.scan)
	})
	if err != nil {
		return nil, repository.MapError(err, model.ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("document deleted", "id", id)
	return doc, nil
}

func (s *Store) scan(sc repository.Scanner) (model.Document, error) {
	var (
		id        string
		data      []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := sc.Scan(&id, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc := model.Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrInvalidDocument, id, err)
	}

	doc[model.FieldID] = id
	if s.def.Timestamps {
		doc[model.FieldCreatedAt] = model.Timestamp(createdAt)
		doc[model.FieldUpdatedAt] = model.Timestamp(updatedAt)
	}
	return doc, nil
}

var _ model.Model = (*Store)(nil)
