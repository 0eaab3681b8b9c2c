package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// OrderItems.productId carries no foreign key: items keep a price snapshot
// and must survive the product being removed from the catalog.
//
//go:embed schema.sql
var schema string

// Tables lists the schema's tables, children first.
var Tables = []string{"OrderItems", "Orders", "Customer", "Product", "Category"}

// EnsureSchema creates any missing table. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
