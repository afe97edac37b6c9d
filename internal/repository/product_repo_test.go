package repository

import (
	"testing"

	"go-order-ws/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}))
	return db
}

func seedProductRow(t *testing.T, db *gorm.DB, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		ProductCode:   "PRD-001",
		Name:          "Laptop",
		UnitPrice:     decimal.RequireFromString("100.00"),
		StockQuantity: stock,
		Status:        model.ProductActive,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func reloadStock(t *testing.T, db *gorm.DB, p *model.Product) int {
	t.Helper()
	var got model.Product
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	return got.StockQuantity
}

func TestDecrementStockGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	p := seedProductRow(t, db, 5)

	// Requesting more than available fires the guard and leaves the row alone.
	ok, err := repo.DecrementStock(db, p.ID, 8, "tester")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, reloadStock(t, db, p))

	// Exactly the available quantity is allowed.
	ok, err = repo.DecrementStock(db, p.ID, 5, "tester")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, reloadStock(t, db, p))

	// At zero any further decrement is refused.
	ok, err = repo.DecrementStock(db, p.ID, 1, "tester")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, reloadStock(t, db, p))
}

func TestDecrementStockDeletedRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	p := seedProductRow(t, db, 5)

	require.NoError(t, repo.Delete(p.ID, "tester"))

	ok, err := repo.DecrementStock(db, p.ID, 1, "tester")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdjustStockGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	p := seedProductRow(t, db, 5)

	ok, err := repo.AdjustStock(db, p.ID, -6, "tester")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, reloadStock(t, db, p))

	ok, err = repo.AdjustStock(db, p.ID, -5, "tester")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, reloadStock(t, db, p))

	ok, err = repo.AdjustStock(db, p.ID, 3, "tester")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, reloadStock(t, db, p))
}

func TestIncrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepo(db)
	p := seedProductRow(t, db, 2)

	require.NoError(t, repo.IncrementStock(db, p.ID, 4, "tester"))
	assert.Equal(t, 6, reloadStock(t, db, p))
}
