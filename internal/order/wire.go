package order

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/order/controller"
	orderrepo "storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/store"
	"storefront/internal/order/usecase"
	productrepo "storefront/internal/product/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	productRepo := productrepo.NewMySQLRepository(db)

	st := store.NewMySQLStore(db, orderRepo, orderItemRepo, productRepo)

	orderSvc := service.NewOrderService(st, logger, service.Options{
		TxTimeout:               cfg.Order.TxTimeout,
		StrictProductReferences: cfg.Order.StrictProductReferences,
	})

	uc := usecase.NewOrderUseCase(orderSvc, orderRepo, orderItemRepo, logger)

	return controller.NewOrderController(uc, logger, cfg.Order.MaxItems)
}
