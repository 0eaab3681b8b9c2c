package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

// InsertBatch writes all items in one statement and returns them with
// their IDs. Every item must belong to the same order, one created in tx.
func (r *MySQLOrderItemRepository) InsertBatch(ctx context.Context, tx *sql.Tx, items []domain.OrderItem) ([]domain.OrderItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	orderID := items[0].OrderID
	placeholders := make([]string, len(items))
	args := make([]interface{}, 0, len(items)*4)
	for i, item := range items {
		if item.OrderID != orderID {
			return nil, fmt.Errorf("inserting order items: mixed order ids %d and %d", orderID, item.OrderID)
		}
		placeholders[i] = "(?, ?, ?, ?)"
		args = append(args, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	}

	query := `INSERT INTO OrderItems (orderId, productId, quantity, unitPrice) VALUES ` + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("inserting order items: %w", err)
	}

	// A multi-row insert hands out ascending ids in row order, though not
	// necessarily consecutive ones, so read them back.
	rows, err := tx.QueryContext(ctx, `SELECT id FROM OrderItems WHERE orderId = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying inserted order item ids: %w", err)
	}
	defer rows.Close()

	out := make([]domain.OrderItem, len(items))
	copy(out, items)
	i := 0
	for rows.Next() {
		if i >= len(out) {
			return nil, fmt.Errorf("order %d has more items than were inserted", orderID)
		}
		if err := rows.Scan(&out[i].ID); err != nil {
			return nil, fmt.Errorf("scanning order item id: %w", err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item ids: %w", err)
	}
	if i != len(out) {
		return nil, fmt.Errorf("expected %d order item ids, got %d", len(out), i)
	}

	return out, nil
}

func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT id, orderId, productId, quantity, unitPrice
		FROM OrderItems
		WHERE orderId = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}
