package service

import (
	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"
	"go-order-ws/internal/repository"
	"go-order-ws/internal/ws"
	"go-order-ws/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdjustStockRequest is a signed manual stock correction.
type AdjustStockRequest struct {
	QuantityChange int    `json:"quantity_change" validate:"required"`
	Notes          string `json:"notes"`
}

type ProductService interface {
	CreateProduct(req *model.Product, actor string) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetProductByCode(code string) (*model.Product, error)
	ListProducts(page, size int) ([]model.Product, int64, error)
	SearchProducts(keyword string, page, size int) ([]model.Product, int64, error)
	ListByStatus(status model.ProductStatus) ([]model.Product, error)
	ListByCategory(category string) ([]model.Product, error)
	ListLowStock() ([]model.Product, error)
	UpdateProduct(id uuid.UUID, req *model.Product, actor string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actor string) error
	AdjustStock(id uuid.UUID, req *AdjustStockRequest, actor string) (*model.Product, error)
}

type productService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewProductService(pRepo repository.ProductRepository, iRepo repository.InventoryRepository, db *gorm.DB, hub *ws.Hub) ProductService {
	return &productService{
		productRepo:   pRepo,
		inventoryRepo: iRepo,
		db:            db,
		wsHub:         hub,
	}
}

func (s *productService) CreateProduct(req *model.Product, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	if !req.UnitPrice.IsPositive() {
		return apperr.Validation("unit price must be greater than zero")
	}

	exists, err := s.productRepo.ExistsByCode(req.ProductCode)
	if err != nil {
		return apperr.Internal(err)
	}
	if exists {
		return apperr.Duplicate("product code", req.ProductCode)
	}
	exists, err = s.productRepo.ExistsByName(req.Name)
	if err != nil {
		return apperr.Internal(err)
	}
	if exists {
		return apperr.Duplicate("product name", req.Name)
	}

	if req.Status == "" {
		req.Status = model.ProductActive
	}
	req.CreatedBy = actor
	req.UpdatedBy = actor

	if err := s.productRepo.Create(req); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *productService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}
	return product, nil
}

func (s *productService) GetProductByCode(code string) (*model.Product, error) {
	product, err := s.productRepo.FindByCode(code)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}
	return product, nil
}

func (s *productService) ListProducts(page, size int) ([]model.Product, int64, error) {
	return s.productRepo.FindAll(page, size)
}

func (s *productService) SearchProducts(keyword string, page, size int) ([]model.Product, int64, error) {
	return s.productRepo.Search(keyword, page, size)
}

func (s *productService) ListByStatus(status model.ProductStatus) ([]model.Product, error) {
	return s.productRepo.FindByStatus(status)
}

func (s *productService) ListByCategory(category string) ([]model.Product, error) {
	return s.productRepo.FindByCategory(category)
}

func (s *productService) ListLowStock() ([]model.Product, error) {
	return s.productRepo.FindLowStock()
}

func (s *productService) UpdateProduct(id uuid.UUID, req *model.Product, actor string) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "product")
	}

	if req.ProductCode != product.ProductCode {
		exists, err := s.productRepo.ExistsByCode(req.ProductCode)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if exists {
			return nil, apperr.Duplicate("product code", req.ProductCode)
		}
	}
	if req.Name != product.Name {
		exists, err := s.productRepo.ExistsByName(req.Name)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if exists {
			return nil, apperr.Duplicate("product name", req.Name)
		}
	}
	if !req.UnitPrice.IsPositive() {
		return nil, apperr.Validation("unit price must be greater than zero")
	}

	product.ProductCode = req.ProductCode
	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.UnitPrice = req.UnitPrice
	product.CostPrice = req.CostPrice
	product.MinStock = req.MinStock
	product.Unit = req.Unit
	if req.Status != "" {
		product.Status = req.Status
	}
	product.UpdatedBy = actor

	// Stock is deliberately not writable here: order create/delete and
	// AdjustStock are the only stock mutation paths, each with a ledger entry.
	if err := s.productRepo.Update(product); err != nil {
		return nil, apperr.Internal(err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(id uuid.UUID, actor string) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return notFoundOr(err, "product")
	}
	if err := s.productRepo.Delete(id, actor); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *productService) AdjustStock(id uuid.UUID, req *AdjustStockRequest, actor string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "product")
		}

		ok, err := s.productRepo.AdjustStock(tx, id, req.QuantityChange, actor)
		if err != nil {
			return apperr.Internal(err)
		}
		if !ok {
			// The guard also fails when the row disappeared since the read
			// above; re-check so a gone product is not reported as a stock
			// problem.
			var check model.Product
			if err := tx.First(&check, "id = ?", id).Error; err != nil {
				return notFoundOr(err, "product")
			}
			return apperr.InsufficientStock(check.Name, -req.QuantityChange, check.StockQuantity)
		}

		var after model.Product
		if err := tx.First(&after, "id = ?", id).Error; err != nil {
			return apperr.Internal(err)
		}

		entry := model.NewInventoryAdjustment(id, req.QuantityChange, after.StockQuantity-req.QuantityChange, req.Notes)
		entry.CreatedBy = actor
		entry.UpdatedBy = actor
		if err := s.inventoryRepo.Create(tx, entry); err != nil {
			return apperr.Internal(err)
		}

		updated = &after
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.NotifyEvent("stock_adjusted", actor, map[string]interface{}{
		"product_id":   updated.ID,
		"product_code": updated.ProductCode,
		"new_stock":    updated.StockQuantity,
		"change":       req.QuantityChange,
	})

	return updated, nil
}
