package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type MySQLCategoryRepository struct {
	db *sql.DB
}

func NewMySQLCategoryRepository(db *sql.DB) *MySQLCategoryRepository {
	return &MySQLCategoryRepository{db: db}
}

func (r *MySQLCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, COALESCE(description, ''), createdAt FROM Category ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *MySQLCategoryRepository) FindByID(ctx context.Context, id int) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(description, ''), createdAt FROM Category WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying category by id: %w", err)
	}

	return &c, nil
}

func (r *MySQLCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO Category (name, description) VALUES (?, ?)`, c.Name, c.Description)
	if err != nil {
		if mysql.IsDuplicateEntry(err) {
			return errors.NewConflictError(fmt.Sprintf("category %q already exists", c.Name))
		}
		return fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	created, err := r.FindByID(ctx, int(id))
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

func (r *MySQLCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	result, err := r.db.ExecContext(ctx, `UPDATE Category SET name = ?, description = ? WHERE id = ?`, c.Name, c.Description, c.ID)
	if err != nil {
		if mysql.IsDuplicateEntry(err) {
			return errors.NewConflictError(fmt.Sprintf("category %q already exists", c.Name))
		}
		return fmt.Errorf("updating category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", c.ID))
	}

	updated, err := r.FindByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// Delete removes the category. Its products keep existing, uncategorised.
func (r *MySQLCategoryRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Category WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", id))
	}
	return nil
}
