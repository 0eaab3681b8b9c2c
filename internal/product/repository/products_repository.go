package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

const productColumns = `id, name, description, sku, price, categoryId, stock, createdAt, updatedAt`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.Price, &p.CategoryID, &p.Stock,
		&p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE id = ?`

	var p domain.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), &p)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

// FindByIDs returns the products among ids that exist, in id order.
func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT `+productColumns+` FROM Product WHERE id IN (%s) ORDER BY id`, strings.Join(placeholders, ", "))
	return r.query(ctx, query, args...)
}

// List returns products ordered by name, optionally restricted to one
// category.
func (r *MySQLRepository) List(ctx context.Context, categoryID *int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE (? IS NULL OR categoryId = ?) ORDER BY name, id`
	return r.query(ctx, query, categoryID, categoryID)
}

// ListLowStock returns products whose stock is at or below threshold,
// emptiest first.
func (r *MySQLRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM Product WHERE stock <= ? ORDER BY stock, id`
	return r.query(ctx, query, threshold)
}

func (r *MySQLRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO Product (name, description, sku, price, categoryId, stock) VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.SKU, p.Price, p.CategoryID, p.Stock)
	if err != nil {
		return mapWriteError(err, "inserting product", p)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	created, err := r.FindByID(ctx, int(id))
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// Update writes the product's catalog fields. Stock is only written when
// stock is non-nil, so concurrent order decrements survive a catalog edit.
func (r *MySQLRepository) Update(ctx context.Context, p *domain.Product, stock *int) error {
	query := `UPDATE Product SET name = ?, description = ?, sku = ?, price = ?, categoryId = ?, stock = COALESCE(?, stock) WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.SKU, p.Price, p.CategoryID, stock, p.ID)
	if err != nil {
		return mapWriteError(err, "updating product", p)
	}

	if err := requireRow(result, p.ID); err != nil {
		return err
	}

	updated, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Product WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return requireRow(result, id)
}

// GetStockForUpdate reads a product's stock and holds its row lock until
// tx ends.
func (r *MySQLRepository) GetStockForUpdate(ctx context.Context, tx *sql.Tx, productID int) (int, error) {
	var stock int
	err := tx.QueryRowContext(ctx, `SELECT stock FROM Product WHERE id = ? FOR UPDATE`, productID).Scan(&stock)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return 0, fmt.Errorf("locking product stock: %w", err)
	}
	return stock, nil
}

func (r *MySQLRepository) SetStock(ctx context.Context, tx *sql.Tx, productID int, stock int) error {
	result, err := tx.ExecContext(ctx, `UPDATE Product SET stock = ? WHERE id = ?`, stock, productID)
	if err != nil {
		return fmt.Errorf("updating product stock: %w", err)
	}
	return requireRow(result, productID)
}

func requireRow(result sql.Result, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	return nil
}

func mapWriteError(err error, action string, p *domain.Product) error {
	if mysql.IsDuplicateEntry(err) {
		return errors.NewConflictError(fmt.Sprintf("product with sku %q already exists", p.SKU))
	}
	if mysql.IsForeignKeyViolation(err) && p.CategoryID != nil {
		return errors.NewNotFoundError(fmt.Sprintf("category with id %d not found", *p.CategoryID))
	}
	return fmt.Errorf("%s: %w", action, err)
}
