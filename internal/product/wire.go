package product

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/product/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLRepository(db)
	categories := repository.NewMySQLCategoryRepository(db)
	svc := NewService(repo, categories, cfg.Catalog.LowStockThreshold, logger)
	return NewController(svc, logger)
}
