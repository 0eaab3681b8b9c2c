package customer

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/customer/repository"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLCustomerRepository(db)
	return NewController(NewService(repo, logger), logger)
}
