package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) error
}

type OrderItemRepository interface {
	InsertBatch(ctx context.Context, tx *sql.Tx, items []domain.OrderItem) ([]domain.OrderItem, error)
}

// StockRepository must lock the product row on read so a concurrent
// transaction cannot overwrite the value between read and write.
type StockRepository interface {
	GetStockForUpdate(ctx context.Context, tx *sql.Tx, productID int) (int, error)
	SetStock(ctx context.Context, tx *sql.Tx, productID int, stock int) error
}

// MySQLStore runs each unit of work in one READ COMMITTED transaction.
type MySQLStore struct {
	db            TransactionManager
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
	stockRepo     StockRepository
}

func NewMySQLStore(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	stockRepo StockRepository,
) *MySQLStore {
	return &MySQLStore{
		db:            db,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		stockRepo:     stockRepo,
	}
}

func (s *MySQLStore) RunInTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	// No-op once committed.
	defer tx.Rollback()

	if err := fn(ctx, &mysqlUnitOfWork{tx: tx, store: s}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type mysqlUnitOfWork struct {
	tx    *sql.Tx
	store *MySQLStore
}

func (u *mysqlUnitOfWork) InsertOrder(ctx context.Context, order *domain.Order) error {
	return u.store.orderRepo.Insert(ctx, u.tx, order)
}

func (u *mysqlUnitOfWork) InsertItems(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	return u.store.orderItemRepo.InsertBatch(ctx, u.tx, items)
}

func (u *mysqlUnitOfWork) GetProductStock(ctx context.Context, productID int) (int, error) {
	return u.store.stockRepo.GetStockForUpdate(ctx, u.tx, productID)
}

func (u *mysqlUnitOfWork) SetProductStock(ctx context.Context, productID int, stock int) error {
	return u.store.stockRepo.SetStock(ctx, u.tx, productID, stock)
}
