package customer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

type customerService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &customerService{
		repo:   repo,
		logger: logger,
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *customerService) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *customerService) CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.Email = normalizeEmail(c.Email)
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.Int("customerId", c.ID))
	return &c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	c.Email = normalizeEmail(c.Email)
	if err := s.repo.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.Int("customerId", id))
	return nil
}

// Emails are unique case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
