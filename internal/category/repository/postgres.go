package repository

import (
	"context"
	"database/sql"

	"github.com/fekuna/omnipos-retail-service/internal/category/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, name, created_at, updated_at)
        VALUES (:id, :name, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return errors.Wrap(err, "insert category")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	if !model.ValidID(id) {
		return nil, nil
	}
	var category model.Category
	query := `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get category")
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT id, name, created_at, updated_at FROM categories`
	args := []interface{}{}

	if f != nil && f.Name != "" {
		query += ` WHERE name = $1`
		args = append(args, f.Name)
	}
	query += ` ORDER BY name ASC`

	if err := r.DB.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET name = :name,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		return errors.Wrap(err, "update category")
	}
	return requireAffected(res, model.ErrCategoryNotFound)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return model.ErrCategoryNotFound
	}
	// products.category_id is ON DELETE SET NULL, products survive as uncategorised.
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "delete category")
	}
	return requireAffected(res, model.ErrCategoryNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
