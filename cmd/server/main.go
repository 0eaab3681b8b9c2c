package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/customer"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/server"
)

func main() {
	// Optional; values feed the environment overrides below.
	_ = godotenv.Load()

	configPath := os.Getenv("STOREFRONT_CONFIG")
	if configPath == "" {
		configPath = "internal/config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, "storefront")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	err = mysql.EnsureSchema(schemaCtx, db)
	cancelSchema()
	if err != nil {
		zapLogger.Fatal("creating schema", zap.Error(err))
	}

	productCtrl := product.NewModule(db, cfg, zapLogger)
	customerCtrl := customer.NewModule(db, zapLogger)
	orderCtrl := order.NewModule(db, cfg, zapLogger)

	router := server.NewRouter(zapLogger, cfg.Server.RequestTimeout, productCtrl, customerCtrl, orderCtrl)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
