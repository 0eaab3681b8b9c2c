package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"storefront/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/storefront_test?parseTime=true&clientFoundRows=true"

// SetupTestDB opens the integration database named by STOREFRONT_TEST_DSN
// (default: storefront_test on localhost:3306) and skips the test when it
// is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("STOREFRONT_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the schema and empties every table.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
	truncate(t, db)
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}
	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	for _, table := range mysql.Tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// InsertProduct seeds a product and returns its id.
func InsertProduct(t *testing.T, db *sql.DB, sku string, price string, stock int) int {
	t.Helper()

	result, err := db.Exec(
		`INSERT INTO Product (name, description, sku, price, stock) VALUES (?, '', ?, ?, ?)`,
		"Product "+sku, sku, price, stock,
	)
	if err != nil {
		t.Fatalf("failed to insert product %s: %v", sku, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return int(id)
}

// InsertCustomer seeds a customer and returns its id.
func InsertCustomer(t *testing.T, db *sql.DB, email string) int {
	t.Helper()

	result, err := db.Exec(`INSERT INTO Customer (firstName, lastName, email) VALUES ('Test', 'Customer', ?)`, email)
	if err != nil {
		t.Fatalf("failed to insert customer %s: %v", email, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read customer id: %v", err)
	}
	return int(id)
}

func ProductStock(t *testing.T, db *sql.DB, productID int) int {
	t.Helper()

	var stock int
	if err := db.QueryRow(`SELECT stock FROM Product WHERE id = ?`, productID).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock for product %d: %v", productID, err)
	}
	return stock
}

func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
