package repository

import (
	"go-order-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(page, size int) ([]model.Product, int64, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	ExistsByCode(code string) (bool, error)
	ExistsByName(name string) (bool, error)
	Search(keyword string, page, size int) ([]model.Product, int64, error)
	FindByStatus(status model.ProductStatus) ([]model.Product, error)
	FindByCategory(category string) ([]model.Product, error)
	FindLowStock() ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID, deletedBy string) error

	// Stock mutations run inside the caller's transaction. Decrement and
	// Adjust are conditional updates: they return false when the guard
	// (stock never negative) would be violated, without touching the row.
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) (bool, error)
	IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(page, size int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64
	if err := r.db.Model(&model.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Offset((page - 1) * size).Limit(size).Order("created_at DESC").Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "product_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ExistsByCode(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("product_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) Search(keyword string, page, size int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64
	pattern := "%" + keyword + "%"
	if err := r.db.Model(&model.Product{}).Where("LOWER(name) LIKE LOWER(?)", pattern).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("LOWER(name) LIKE LOWER(?)", pattern).Offset((page - 1) * size).Limit(size).Find(&products).Error
	return products, total, err
}

func (r *productRepo) FindByStatus(status model.ProductStatus) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("status = ?", status).Find(&products).Error
	return products, err
}

func (r *productRepo) FindByCategory(category string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("category = ?", category).Find(&products).Error
	return products, err
}

func (r *productRepo) FindLowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("stock_quantity <= min_stock").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Product{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"updated_by":     updatedBy,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) IncrementStock(tx *gorm.DB, id uuid.UUID, quantity int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"updated_by":     updatedBy,
		}).Error
}

func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
			"updated_by":     updatedBy,
		})
	return res.RowsAffected > 0, res.Error
}
