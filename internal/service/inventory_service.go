package service

import (
	"time"

	"go-order-ws/internal/model"
	"go-order-ws/internal/repository"

	"github.com/google/uuid"
)

// InventoryService exposes read-only views over the inventory ledger. All
// writes happen inside the order and product workflows.
type InventoryService interface {
	ListTransactions(page, size int) ([]model.InventoryTransaction, int64, error)
	GetTransaction(id uuid.UUID) (*model.InventoryTransaction, error)
	ListByProduct(productID uuid.UUID) ([]model.InventoryTransaction, error)
	NetChange(productID uuid.UUID) (int, error)
	GetStockMovement(start, end time.Time) ([]repository.StockMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

func NewInventoryService(iRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: iRepo}
}

func (s *inventoryService) ListTransactions(page, size int) ([]model.InventoryTransaction, int64, error) {
	return s.inventoryRepo.FindAll(page, size)
}

func (s *inventoryService) GetTransaction(id uuid.UUID) (*model.InventoryTransaction, error) {
	entry, err := s.inventoryRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "inventory transaction")
	}
	return entry, nil
}

func (s *inventoryService) ListByProduct(productID uuid.UUID) ([]model.InventoryTransaction, error) {
	return s.inventoryRepo.FindByProductID(productID)
}

func (s *inventoryService) NetChange(productID uuid.UUID) (int, error) {
	return s.inventoryRepo.NetChange(productID)
}

func (s *inventoryService) GetStockMovement(start, end time.Time) ([]repository.StockMovementData, error) {
	return s.inventoryRepo.GetStockMovement(start, end)
}

func (s *inventoryService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.inventoryRepo.GetDashboardStats()
}
