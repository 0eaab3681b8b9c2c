package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

var errNegativeStock = errors.New("stock must not be negative")

// MemoryStore is a map-backed Store. Units of work are serialised behind a
// single mutex and their writes are staged until fn returns successfully.
type MemoryStore struct {
	mu          sync.Mutex
	nextOrderID uint
	nextItemID  uint
	orders      map[uint]domain.Order
	items       map[uint][]domain.OrderItem
	stock       map[int]int
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[uint]domain.Order),
		items:  make(map[uint][]domain.OrderItem),
		stock:  make(map[int]int),
		now:    time.Now,
	}
}

// PutProduct registers a product with the given stock, replacing any
// previous value.
func (s *MemoryStore) PutProduct(productID int, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[productID] = stock
}

func (s *MemoryStore) Stock(productID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stock, ok := s.stock[productID]
	return stock, ok
}

// Orders returns every committed order with its items, by ascending ID.
func (s *MemoryStore) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, 0, len(s.orders))
	for id, o := range s.orders {
		o.Items = append([]domain.OrderItem(nil), s.items[id]...)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, items := range s.items {
		n += len(items)
	}
	return n
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	tx := &memoryTx{
		store:       s,
		nextOrderID: s.nextOrderID,
		nextItemID:  s.nextItemID,
		orders:      make(map[uint]domain.Order),
		items:       make(map[uint][]domain.OrderItem),
		stock:       make(map[int]int),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	tx.commit()
	return nil
}

type memoryTx struct {
	store       *MemoryStore
	nextOrderID uint
	nextItemID  uint
	orders      map[uint]domain.Order
	items       map[uint][]domain.OrderItem
	stock       map[int]int
}

func (t *memoryTx) InsertOrder(ctx context.Context, order *domain.Order) error {
	t.nextOrderID++
	order.ID = t.nextOrderID
	order.CreatedAt = t.store.now().UTC()

	stored := *order
	stored.Items = nil
	t.orders[stored.ID] = stored
	return nil
}

func (t *memoryTx) InsertItems(ctx context.Context, items []domain.OrderItem) ([]domain.OrderItem, error) {
	out := make([]domain.OrderItem, len(items))
	for i, item := range items {
		if _, ok := t.orders[item.OrderID]; !ok {
			if _, committed := t.store.orders[item.OrderID]; !committed {
				return nil, fmt.Errorf("inserting order item: order %d does not exist", item.OrderID)
			}
		}
		t.nextItemID++
		item.ID = t.nextItemID
		out[i] = item
		t.items[item.OrderID] = append(t.items[item.OrderID], item)
	}
	return out, nil
}

func (t *memoryTx) GetProductStock(ctx context.Context, productID int) (int, error) {
	if stock, ok := t.stock[productID]; ok {
		return stock, nil
	}
	stock, ok := t.store.stock[productID]
	if !ok {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	return stock, nil
}

func (t *memoryTx) SetProductStock(ctx context.Context, productID int, stock int) error {
	if _, ok := t.store.stock[productID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if stock < 0 {
		return errNegativeStock
	}
	t.stock[productID] = stock
	return nil
}

// commit must run with the store mutex held.
func (t *memoryTx) commit() {
	s := t.store
	for id, o := range t.orders {
		s.orders[id] = o
	}
	for orderID, items := range t.items {
		s.items[orderID] = append(s.items[orderID], items...)
	}
	for productID, stock := range t.stock {
		s.stock[productID] = stock
	}
	s.nextOrderID = t.nextOrderID
	s.nextItemID = t.nextItemID
}
