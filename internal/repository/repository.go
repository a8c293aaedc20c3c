package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = gorm.ErrDuplicatedKey
	// ErrNoCondition is returned by DeleteBy when every condition was skipped.
	ErrNoCondition = errors.New("delete requires at least one condition")
)

// StorageError wraps a failure reported by the database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}

// Option configures a Repository.
type Option func(*options)

type options struct {
	preloads []string
	cascade  []string
}

// WithPreload eager-loads the named associations on every read.
func WithPreload(associations ...string) Option {
	return func(o *options) { o.preloads = append(o.preloads, associations...) }
}

// WithCascade deletes the named associations (join rows for many2many)
// together with the owner.
func WithCascade(associations ...string) Option {
	return func(o *options) { o.cascade = append(o.cascade, associations...) }
}

// Repository provides typed CRUD and filtered queries over one entity.
type Repository[T any] struct {
	db   *gorm.DB
	opts options
}

// New creates a repository for T.
func New[T any](db *gorm.DB, opts ...Option) *Repository[T] {
	r := &Repository[T]{db: db}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, opts: r.opts}
}

// WithTransaction runs fn inside a transaction. The transaction is rolled
// back when fn returns an error.
func (r *Repository[T]) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo *Repository[T]) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, r.WithTx(tx))
	})
}

func (r *Repository[T]) read(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx).Model(new(T))
	for _, p := range r.opts.preloads {
		db = db.Preload(p)
	}
	return db
}

// GetOneBy returns the first row matching every condition.
func (r *Repository[T]) GetOneBy(ctx context.Context, conds ...Condition) (*T, error) {
	var item T
	if err := applyConditions(r.read(ctx), conds).First(&item).Error; err != nil {
		return nil, wrapErr("get one", err)
	}
	return &item, nil
}

// GetByID returns the row with the given primary key.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.read(ctx).First(&item, id).Error; err != nil {
		return nil, wrapErr("get by id", err)
	}
	return &item, nil
}

// GetAllBy returns the rows matching cond within page.
func (r *Repository[T]) GetAllBy(ctx context.Context, cond Condition, page Page) ([]T, error) {
	return r.Find(ctx, Filter{Where: []Condition{cond}, Limit: page.Limit, Offset: page.Offset})
}

// Find returns the rows matching every condition of f.
func (r *Repository[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	db := applyConditions(r.read(ctx), f.Where)
	db = applyPage(applyOrder(db, f.Order), f.Limit, f.Offset)

	var items []T
	if err := db.Find(&items).Error; err != nil {
		return nil, wrapErr("find", err)
	}
	return items, nil
}

// GetAll lists rows. Unless opts.All is set the result is capped at
// opts.Limit, or DefaultListLimit when no limit is given.
func (r *Repository[T]) GetAll(ctx context.Context, opts ListOptions) ([]T, error) {
	limit := opts.Limit
	if opts.All {
		limit = 0
	} else if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.Find(ctx, Filter{Order: opts.Order, Limit: limit, Offset: opts.Offset})
}

// Count returns the number of rows matching every condition.
func (r *Repository[T]) Count(ctx context.Context, conds ...Condition) (int64, error) {
	var n int64
	if err := applyConditions(r.db.WithContext(ctx).Model(new(T)), conds).Count(&n).Error; err != nil {
		return 0, wrapErr("count", err)
	}
	return n, nil
}

// Create inserts item and fills its generated fields.
func (r *Repository[T]) Create(ctx context.Context, item *T) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return wrapErr("create", err)
	}
	return nil
}

// CreateAll inserts items in a single batch.
func (r *Repository[T]) CreateAll(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&items).Error; err != nil {
		return wrapErr("create all", err)
	}
	return nil
}

// UpdateByID applies assigns to the row with the given primary key and
// returns the refreshed row.
func (r *Repository[T]) UpdateByID(ctx context.Context, id uint, assigns ...Assignment) (*T, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current T
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}
		if len(assigns) == 0 {
			return nil
		}
		return tx.Model(&current).Updates(assignments(assigns)).Error
	})
	if err != nil {
		return nil, wrapErr("update", err)
	}
	return r.GetByID(ctx, id)
}

// DeleteBy deletes every row matching conds and reports whether any row was
// deleted. At least one condition must be present.
func (r *Repository[T]) DeleteBy(ctx context.Context, conds ...Condition) (bool, error) {
	if !hasCondition(conds) {
		return false, ErrNoCondition
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []T
		if err := applyConditions(tx.Model(new(T)), conds).Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			db := tx
			if len(r.opts.cascade) > 0 {
				db = db.Select(r.opts.cascade)
			}
			res := db.Delete(&rows[i])
			if res.Error != nil {
				return res.Error
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return false, wrapErr("delete", err)
	}
	return deleted > 0, nil
}
