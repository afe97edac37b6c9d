package service

import (
	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"
	"go-order-ws/internal/repository"
	"go-order-ws/pkg/validator"

	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(req *model.Customer, actor string) error
	GetCustomer(id uuid.UUID) (*model.Customer, error)
	GetCustomerByCode(code string) (*model.Customer, error)
	ListCustomers(page, size int) ([]model.Customer, int64, error)
	SearchCustomers(name string, page, size int) ([]model.Customer, int64, error)
	ListByStatus(status model.CustomerStatus) ([]model.Customer, error)
	UpdateCustomer(id uuid.UUID, req *model.Customer, actor string) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID, actor string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(cRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: cRepo}
}

func (s *customerService) CreateCustomer(req *model.Customer, actor string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	exists, err := s.customerRepo.ExistsByCode(req.CustomerCode)
	if err != nil {
		return apperr.Internal(err)
	}
	if exists {
		return apperr.Duplicate("customer code", req.CustomerCode)
	}
	if req.Email != "" {
		exists, err = s.customerRepo.ExistsByEmail(req.Email)
		if err != nil {
			return apperr.Internal(err)
		}
		if exists {
			return apperr.Duplicate("email", req.Email)
		}
	}
	if req.CreditLimit.IsNegative() {
		return apperr.Validation("credit limit cannot be negative")
	}

	if req.Status == "" {
		req.Status = model.CustomerActive
	}
	req.CreatedBy = actor
	req.UpdatedBy = actor

	if err := s.customerRepo.Create(req); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *customerService) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "customer")
	}
	return customer, nil
}

func (s *customerService) GetCustomerByCode(code string) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByCode(code)
	if err != nil {
		return nil, notFoundOr(err, "customer")
	}
	return customer, nil
}

func (s *customerService) ListCustomers(page, size int) ([]model.Customer, int64, error) {
	return s.customerRepo.FindAll(page, size)
}

func (s *customerService) SearchCustomers(name string, page, size int) ([]model.Customer, int64, error) {
	return s.customerRepo.SearchByName(name, page, size)
}

func (s *customerService) ListByStatus(status model.CustomerStatus) ([]model.Customer, error) {
	return s.customerRepo.FindByStatus(status)
}

func (s *customerService) UpdateCustomer(id uuid.UUID, req *model.Customer, actor string) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "customer")
	}

	if req.CustomerCode != customer.CustomerCode {
		exists, err := s.customerRepo.ExistsByCode(req.CustomerCode)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if exists {
			return nil, apperr.Duplicate("customer code", req.CustomerCode)
		}
	}
	if req.Email != "" && req.Email != customer.Email {
		exists, err := s.customerRepo.ExistsByEmail(req.Email)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if exists {
			return nil, apperr.Duplicate("email", req.Email)
		}
	}
	if req.CreditLimit.IsNegative() {
		return nil, apperr.Validation("credit limit cannot be negative")
	}

	customer.CustomerCode = req.CustomerCode
	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.ContactPerson = req.ContactPerson
	customer.ContactPhone = req.ContactPhone
	customer.CreditLimit = req.CreditLimit
	if req.Status != "" {
		customer.Status = req.Status
	}
	customer.UpdatedBy = actor

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, apperr.Internal(err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(id uuid.UUID, actor string) error {
	if _, err := s.customerRepo.FindByID(id); err != nil {
		return notFoundOr(err, "customer")
	}
	if err := s.customerRepo.Delete(id, actor); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
