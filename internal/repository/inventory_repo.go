package repository

import (
	"time"

	"go-order-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementData is a daily in/out aggregate for chart data.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats is an overview of the catalog.
type DashboardStats struct {
	TotalProducts  int64   `json:"total_products"`
	LowStockCount  int64   `json:"low_stock_count"`
	TotalValuation float64 `json:"total_valuation"`
}

type InventoryRepository interface {
	// Create appends a ledger entry. Entries are never updated or deleted.
	Create(tx *gorm.DB, entry *model.InventoryTransaction) error
	FindAll(page, size int) ([]model.InventoryTransaction, int64, error)
	FindByID(id uuid.UUID) (*model.InventoryTransaction, error)
	FindByProductID(productID uuid.UUID) ([]model.InventoryTransaction, error)
	NetChange(productID uuid.UUID) (int, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) Create(tx *gorm.DB, entry *model.InventoryTransaction) error {
	return tx.Create(entry).Error
}

func (r *inventoryRepo) FindAll(page, size int) ([]model.InventoryTransaction, int64, error) {
	var entries []model.InventoryTransaction
	var total int64
	if err := r.db.Model(&model.InventoryTransaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Product").Offset((page - 1) * size).Limit(size).Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}

func (r *inventoryRepo) FindByID(id uuid.UUID) (*model.InventoryTransaction, error) {
	var entry model.InventoryTransaction
	err := r.db.Preload("Product").First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *inventoryRepo) FindByProductID(productID uuid.UUID) ([]model.InventoryTransaction, error) {
	var entries []model.InventoryTransaction
	err := r.db.Where("product_id = ?", productID).Order("created_at ASC").Find(&entries).Error
	return entries, err
}

// NetChange replays the ledger for one product: every entry's after-before
// is exactly its signed stock delta, so the sum is the net movement since
// the first entry.
func (r *inventoryRepo) NetChange(productID uuid.UUID) (int, error) {
	var net int
	err := r.db.Model(&model.InventoryTransaction{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(after_quantity - before_quantity), 0)").
		Scan(&net).Error
	return net, err
}

func (r *inventoryRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.InventoryTransaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN type = 'OUT' THEN quantity ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}

func (r *inventoryRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("stock_quantity <= min_stock").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock_quantity * unit_price), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
