package product

import (
	"context"

	"storefront/internal/domain"
)

type Service interface {
	ListProducts(ctx context.Context, categoryID *int) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	SearchProducts(ctx context.Context, ids []int) (found []domain.Product, notFoundIDs []int, err error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product, stock *int) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListLowStock(ctx context.Context, threshold *int) ([]domain.Product, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

type Repository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error)
	List(ctx context.Context, categoryID *int) ([]domain.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	// Update keeps the stored stock when stock is nil.
	Update(ctx context.Context, p *domain.Product, stock *int) error
	Delete(ctx context.Context, id int) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int) error
}
