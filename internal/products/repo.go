package products

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repo is the listing store. Reads always resolve the owning user so the
// read shape can denormalize contact details.
type Repo interface {
	Create(ctx context.Context, tx bun.IDB, product *Product) (*Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, tx bun.IDB, product *Product) (*Product, error)
	Delete(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type repo struct {
	db *bun.DB
}

var _ Repo = (*repo)(nil)

func NewRepo(db *bun.DB) Repo {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, tx bun.IDB, product *Product) (*Product, error) {
	if tx == nil {
		tx = r.db
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	if _, err := tx.NewInsert().Model(product).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert product")
	}

	return product, nil
}

func (r *repo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	record := &Product{}

	err := r.db.NewSelect().
		Model(record).
		Relation("Owner").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to select product")
	}

	return record, nil
}

func (r *repo) List(ctx context.Context) ([]*Product, error) {
	records := []*Product{}

	err := r.db.NewSelect().
		Model(&records).
		Relation("Owner").
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list products")
	}

	return records, nil
}

func (r *repo) Update(ctx context.Context, tx bun.IDB, product *Product) (*Product, error) {
	if tx == nil {
		tx = r.db
	}

	res, err := tx.NewUpdate().
		Model(product).
		WherePK().
		Exec(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update product")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrProductNotFound
	}

	return product, nil
}

func (r *repo) Delete(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}

	res, err := tx.NewDelete().
		Model((*Product)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete product")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrProductNotFound
	}

	return nil
}
