package customer

import (
	"context"

	"storefront/internal/domain"
)

type Service interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id int) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int) error
}

type Repository interface {
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) error
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id int) error
}
