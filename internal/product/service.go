package product

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

type productService struct {
	repo              Repository
	categories        CategoryRepository
	lowStockThreshold int
	logger            *zap.Logger
}

func NewService(repo Repository, categories CategoryRepository, lowStockThreshold int, logger *zap.Logger) Service {
	return &productService{
		repo:              repo,
		categories:        categories,
		lowStockThreshold: lowStockThreshold,
		logger:            logger,
	}
}

func (s *productService) ListProducts(ctx context.Context, categoryID *int) ([]domain.Product, error) {
	return s.repo.List(ctx, categoryID)
}

func (s *productService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// SearchProducts looks up ids in one query and reports the ones that do not
// exist, in request order. Repeated ids are looked up once.
func (s *productService) SearchProducts(ctx context.Context, ids []int) ([]domain.Product, []int, error) {
	unique := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[int]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	notFoundIDs := []int{}
	for _, id := range unique {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}

func (s *productService) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.Int("productId", p.ID), zap.String("sku", p.SKU))
	return &p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, p domain.Product, stock *int) (*domain.Product, error) {
	if err := s.repo.Update(ctx, &p, stock); err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.Int("productId", p.ID), zap.Int("stock", p.Stock))
	if p.IsLowStock(s.lowStockThreshold) {
		s.logger.Warn("product stock low", zap.Int("productId", p.ID), zap.Int("stock", p.Stock), zap.Int("threshold", s.lowStockThreshold))
	}
	return &p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Int("productId", id))
	return nil
}

// ListLowStock uses the configured threshold unless the caller gives one.
func (s *productService) ListLowStock(ctx context.Context, threshold *int) ([]domain.Product, error) {
	limit := s.lowStockThreshold
	if threshold != nil {
		limit = *threshold
	}
	return s.repo.ListLowStock(ctx, limit)
}

func (s *productService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *productService) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if err := s.categories.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *productService) UpdateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if err := s.categories.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *productService) DeleteCategory(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}
