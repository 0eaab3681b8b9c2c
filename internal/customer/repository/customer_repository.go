package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

const customerColumns = `id, firstName, lastName, email, phone, address, createdAt, updatedAt`

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

func (r *MySQLCustomerRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM Customer WHERE id = ?`

	var c domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by id: %w", err)
	}

	return &c, nil
}

func (r *MySQLCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM Customer ORDER BY lastName, firstName, id`)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Address,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}

	return customers, nil
}

func (r *MySQLCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO Customer (firstName, lastName, email, phone, address) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.Address)
	if err != nil {
		return mapWriteError(err, "inserting customer", c)
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

func (r *MySQLCustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE Customer SET firstName = ?, lastName = ?, email = ?, phone = ?, address = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.ID)
	if err != nil {
		return mapWriteError(err, "updating customer", c)
	}

	if err := requireRow(result, c.ID); err != nil {
		return err
	}

	updated, err := r.FindByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// Delete removes the customer. Their orders are kept with customerId
// cleared.
func (r *MySQLCustomerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Customer WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}
	return nil
}

func mapWriteError(err error, action string, c *domain.Customer) error {
	if mysql.IsDuplicateEntry(err) {
		return errors.NewConflictError(fmt.Sprintf("customer with email %q already exists", c.Email))
	}
	return fmt.Errorf("%s: %w", action, err)
}
