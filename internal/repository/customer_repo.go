package repository

import (
	"go-order-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll(page, size int) ([]model.Customer, int64, error)
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindByCode(code string) (*model.Customer, error)
	ExistsByCode(code string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	SearchByName(name string, page, size int) ([]model.Customer, int64, error)
	FindByStatus(status model.CustomerStatus) ([]model.Customer, error)
	Update(customer *model.Customer) error
	Delete(id uuid.UUID, deletedBy string) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll(page, size int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64
	if err := r.db.Model(&model.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Offset((page - 1) * size).Limit(size).Order("created_at DESC").Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindByCode(code string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "customer_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) ExistsByCode(code string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).Where("customer_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) SearchByName(name string, page, size int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64
	pattern := "%" + name + "%"
	if err := r.db.Model(&model.Customer{}).Where("LOWER(name) LIKE LOWER(?)", pattern).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Where("LOWER(name) LIKE LOWER(?)", pattern).Offset((page - 1) * size).Limit(size).Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) FindByStatus(status model.CustomerStatus) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Where("status = ?", status).Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Customer{}).Where("id = ?", id).Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Customer{}, "id = ?", id).Error
}
