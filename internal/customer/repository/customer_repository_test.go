package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/errors"
	"storefront/internal/testutil"
)

func TestCustomerRepository_CreateAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLCustomerRepository(db)
	ctx := context.Background()

	phone := "555-0100"
	c := &domain.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: &phone}
	require.NoError(t, repo.Create(ctx, c))
	assert.NotZero(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", found.Email)
	require.NotNil(t, found.Phone)
	assert.Equal(t, phone, *found.Phone)
	assert.Nil(t, found.Address)
}

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLCustomerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Customer{FirstName: "Ada", Email: "dup@example.com"}))

	err := repo.Create(ctx, &domain.Customer{FirstName: "Grace", Email: "dup@example.com"})
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestCustomerRepository_UpdateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLCustomerRepository(db)
	ctx := context.Background()

	c := &domain.Customer{FirstName: "Ada", LastName: "Byron", Email: "ada@example.com"}
	require.NoError(t, repo.Create(ctx, c))

	c.LastName = "Lovelace"
	require.NoError(t, repo.Update(ctx, c))
	assert.Equal(t, "Lovelace", c.LastName)

	customers, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada Lovelace", customers[0].FullName())

	err = repo.Update(ctx, &domain.Customer{ID: c.ID + 100, FirstName: "X", Email: "x@example.com"})
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCustomerRepository_DeleteKeepsOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLCustomerRepository(db)
	ctx := context.Background()

	customerID := testutil.InsertCustomer(t, db, "gone@example.com")
	_, err := db.Exec(`INSERT INTO Orders (customerId, status, total) VALUES (?, 'pending', 10.00)`, customerID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, customerID))

	var orphaned int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM Orders WHERE customerId IS NULL`).Scan(&orphaned))
	assert.Equal(t, 1, orphaned)

	_, ok := errors.IsNotFoundError(repo.Delete(ctx, customerID))
	assert.True(t, ok)
}
