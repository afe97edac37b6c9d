package repository

import (
	"time"

	"go-order-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusCount is an aggregate row for order counts grouped by status.
type StatusCount struct {
	Status model.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

type PaymentStatusCount struct {
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	Count         int64               `json:"count"`
}

type OrderRepository interface {
	FindByID(id uuid.UUID) (*model.Order, error)
	FindByNumber(number string) (*model.Order, error)
	ExistsByNumber(number string) (bool, error)
	FindAll(page, size int) ([]model.Order, int64, error)
	FindByCustomerID(customerID uuid.UUID) ([]model.Order, error)
	FindByStatus(status model.OrderStatus) ([]model.Order, error)
	FindByPaymentStatus(status model.PaymentStatus) ([]model.Order, error)
	FindByOrderDateBetween(start, end time.Time, page, size int) ([]model.Order, int64, error)
	Save(order *model.Order) error
	CountByStatus() ([]StatusCount, error)
	CountByPaymentStatus() ([]PaymentStatusCount, error)
	SumFinalAmountBetween(start, end time.Time) (decimal.Decimal, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Preload("Customer").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByNumber(number string) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Preload("Customer").First(&order, "order_number = ?", number).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) ExistsByNumber(number string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *orderRepo) FindAll(page, size int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	if err := r.db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Items").Offset((page - 1) * size).Limit(size).Order("order_date DESC").Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) FindByCustomerID(customerID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Where("customer_id = ?", customerID).Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByStatus(status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Where("status = ?", status).Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByPaymentStatus(status model.PaymentStatus) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Preload("Items").Where("payment_status = ?", status).Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindByOrderDateBetween(start, end time.Time, page, size int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64
	if err := r.db.Model(&model.Order{}).Where("order_date BETWEEN ? AND ?", start, end).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Preload("Items").Where("order_date BETWEEN ? AND ?", start, end).
		Offset((page - 1) * size).Limit(size).Order("order_date DESC").Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) Save(order *model.Order) error {
	// Items are immutable after creation; never cascade them through a
	// header save.
	return r.db.Omit(clause.Associations).Save(order).Error
}

func (r *orderRepo) CountByStatus() ([]StatusCount, error) {
	var results []StatusCount
	err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&results).Error
	return results, err
}

func (r *orderRepo) CountByPaymentStatus() ([]PaymentStatusCount, error) {
	var results []PaymentStatusCount
	err := r.db.Model(&model.Order{}).
		Select("payment_status, COUNT(*) as count").
		Group("payment_status").
		Scan(&results).Error
	return results, err
}

func (r *orderRepo) SumFinalAmountBetween(start, end time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.Model(&model.Order{}).
		Where("order_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&sum).Error
	return sum, err
}
