package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Order    OrderConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type OrderConfig struct {
	TxTimeout               time.Duration
	StrictProductReferences bool
	MaxItems                int
}

type CatalogConfig struct {
	LowStockThreshold int
}

// Load reads the optional YAML file at path and applies environment
// overrides on top (SERVER_PORT, DB_HOST, ORDER_TX_TIMEOUT, ...).
// An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "storefront")
	v.SetDefault("db.password", "secret")
	v.SetDefault("db.name", "storefront")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "5m")
	v.SetDefault("log.level", "info")
	v.SetDefault("order.tx_timeout", "5s")
	v.SetDefault("order.strict_product_references", false)
	v.SetDefault("order.max_items", 100)
	v.SetDefault("catalog.low_stock_threshold", 5)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	requestTimeout, err := time.ParseDuration(v.GetString("server.request_timeout"))
	if err != nil {
		return nil, fmt.Errorf("parsing server.request_timeout: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("db.conn_max_lifetime"))
	if err != nil {
		return nil, fmt.Errorf("parsing db.conn_max_lifetime: %w", err)
	}

	txTimeout, err := time.ParseDuration(v.GetString("order.tx_timeout"))
	if err != nil {
		return nil, fmt.Errorf("parsing order.tx_timeout: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetInt("server.port"),
			RequestTimeout: requestTimeout,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Order: OrderConfig{
			TxTimeout:               txTimeout,
			StrictProductReferences: v.GetBool("order.strict_product_references"),
			MaxItems:                v.GetInt("order.max_items"),
		},
		Catalog: CatalogConfig{
			LowStockThreshold: v.GetInt("catalog.low_stock_threshold"),
		},
	}

	return cfg, nil
}
