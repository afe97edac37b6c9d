package service

import (
	"fmt"
	"strings"
	"time"

	"go-order-ws/internal/apperr"
	"go-order-ws/internal/model"
	"go-order-ws/internal/repository"
	"go-order-ws/internal/ws"
	"go-order-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItemRequest is one requested line of a new order. Unit price is
// captured here and kept on the item, independent of later product price
// changes.
type OrderItemRequest struct {
	ProductID    uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Notes        string          `json:"notes"`
}

type CreateOrderRequest struct {
	OrderNumber     string             `json:"order_number" validate:"max=20"`
	CustomerID      uuid.UUID          `json:"customer_id" validate:"uuid_required"`
	OrderDate       *time.Time         `json:"order_date"`
	Currency        string             `json:"currency" validate:"max=3"`
	ShippingAddress string             `json:"shipping_address"`
	Notes           string             `json:"notes"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest updates header fields only. Status changes go through
// UpdateOrderStatus; items are immutable after creation.
type UpdateOrderRequest struct {
	OrderNumber     string           `json:"order_number" validate:"max=20"`
	OrderDate       *time.Time       `json:"order_date"`
	DeliveryDate    *time.Time       `json:"delivery_date"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	TaxAmount       *decimal.Decimal `json:"tax_amount"`
	PaymentMethod   *string          `json:"payment_method"`
	ShippingAddress *string          `json:"shipping_address"`
	Notes           *string          `json:"notes"`
}

type OrderService interface {
	CreateOrder(req *CreateOrderRequest, actor string) (*model.Order, error)
	GetOrder(id uuid.UUID) (*model.Order, error)
	GetOrderByNumber(number string) (*model.Order, error)
	ListOrders(page, size int) ([]model.Order, int64, error)
	ListByCustomer(customerID uuid.UUID) ([]model.Order, error)
	ListByStatus(status model.OrderStatus) ([]model.Order, error)
	ListByPaymentStatus(status model.PaymentStatus) ([]model.Order, error)
	ListByDateRange(start, end time.Time, page, size int) ([]model.Order, int64, error)
	UpdateOrder(id uuid.UUID, req *UpdateOrderRequest, actor string) (*model.Order, error)
	UpdateOrderStatus(id uuid.UUID, status model.OrderStatus, actor string) (*model.Order, error)
	UpdatePaymentStatus(id uuid.UUID, status model.PaymentStatus, actor string) (*model.Order, error)
	DeleteOrder(id uuid.UUID, actor string) error
	CountByStatus() ([]repository.StatusCount, error)
	CountByPaymentStatus() ([]repository.PaymentStatusCount, error)
	SumFinalAmountBetween(start, end time.Time) (decimal.Decimal, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	inventoryRepo repository.InventoryRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewOrderService(
	oRepo repository.OrderRepository,
	pRepo repository.ProductRepository,
	cRepo repository.CustomerRepository,
	iRepo repository.InventoryRepository,
	db *gorm.DB,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		orderRepo:     oRepo,
		productRepo:   pRepo,
		customerRepo:  cRepo,
		inventoryRepo: iRepo,
		db:            db,
		wsHub:         hub,
	}
}

// generateOrderNumber builds ORD-<yyyymmdd>-<6 hex chars>, 19 characters,
// inside the order_number varchar(20) limit.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), strings.ToUpper(uuid.NewString()[:6]))
}

func (s *orderService) CreateOrder(req *CreateOrderRequest, actor string) (*model.Order, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	for i := range req.Items {
		if !req.Items[i].UnitPrice.IsPositive() {
			return nil, apperr.Validation("unit price must be greater than zero")
		}
		rate := req.Items[i].DiscountRate
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, apperr.Validation("discount rate must be between 0 and 100")
		}
	}

	orderNumber := req.OrderNumber
	if orderNumber == "" {
		orderNumber = generateOrderNumber()
	} else {
		exists, err := s.orderRepo.ExistsByNumber(orderNumber)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if exists {
			return nil, apperr.Duplicate("order number", orderNumber)
		}
	}

	if _, err := s.customerRepo.FindByID(req.CustomerID); err != nil {
		return nil, notFoundOr(err, "customer")
	}

	// Aggregate requested quantity per product before validating, so two
	// lines for the same product cannot overcommit past the combined check.
	requested := make(map[uuid.UUID]int)
	for _, line := range req.Items {
		requested[line.ProductID] += line.Quantity
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	currency := req.Currency
	if currency == "" {
		currency = "CNY"
	}

	var order *model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for productID, quantity := range requested {
			var product model.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				return notFoundOr(err, "product")
			}
			if !product.HasSufficientStock(quantity) {
				return apperr.InsufficientStock(product.Name, quantity, product.StockQuantity)
			}
		}

		order = &model.Order{
			OrderNumber:     orderNumber,
			CustomerID:      req.CustomerID,
			OrderDate:       orderDate,
			Status:          model.OrderPending,
			TotalAmount:     decimal.Zero,
			DiscountAmount:  decimal.Zero,
			TaxAmount:       decimal.Zero,
			FinalAmount:     decimal.Zero,
			Currency:        currency,
			PaymentStatus:   model.PaymentUnpaid,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}
		order.CreatedBy = actor
		order.UpdatedBy = actor
		if err := tx.Create(order).Error; err != nil {
			return apperr.Internal(err)
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(req.Items))
		for _, line := range req.Items {
			item := model.OrderItem{
				OrderID:      order.ID,
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				UnitPrice:    line.UnitPrice,
				DiscountRate: line.DiscountRate,
				Notes:        line.Notes,
			}
			item.CalculateSubtotal()
			item.CreatedBy = actor
			item.UpdatedBy = actor
			if err := tx.Create(&item).Error; err != nil {
				return apperr.Internal(err)
			}
			total = total.Add(item.Subtotal)
			items = append(items, item)
		}

		// Conditional decrement per distinct product; a concurrent order may
		// have consumed stock since the check above, in which case the guard
		// fails and the whole transaction rolls back.
		for productID, quantity := range requested {
			ok, err := s.productRepo.DecrementStock(tx, productID, quantity, actor)
			if err != nil {
				return apperr.Internal(err)
			}
			var product model.Product
			if err := tx.First(&product, "id = ?", productID).Error; err != nil {
				return notFoundOr(err, "product")
			}
			if !ok {
				return apperr.InsufficientStock(product.Name, quantity, product.StockQuantity)
			}
			entry := model.NewInventoryOut(productID, quantity, product.StockQuantity+quantity,
				model.RefOrder, &order.ID, "order "+order.OrderNumber)
			entry.CreatedBy = actor
			entry.UpdatedBy = actor
			if err := s.inventoryRepo.Create(tx, entry); err != nil {
				return apperr.Internal(err)
			}
		}

		order.TotalAmount = total
		order.CalculateFinalAmount()
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"total_amount": order.TotalAmount,
			"final_amount": order.FinalAmount,
		}).Error; err != nil {
			return apperr.Internal(err)
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.NotifyEvent("order_created", actor, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"final_amount": order.FinalAmount,
	})

	return order, nil
}

func (s *orderService) GetOrder(id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "order")
	}
	return order, nil
}

func (s *orderService) GetOrderByNumber(number string) (*model.Order, error) {
	order, err := s.orderRepo.FindByNumber(number)
	if err != nil {
		return nil, notFoundOr(err, "order")
	}
	return order, nil
}

func (s *orderService) ListOrders(page, size int) ([]model.Order, int64, error) {
	return s.orderRepo.FindAll(page, size)
}

func (s *orderService) ListByCustomer(customerID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.FindByCustomerID(customerID)
}

func (s *orderService) ListByStatus(status model.OrderStatus) ([]model.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown order status: " + string(status))
	}
	return s.orderRepo.FindByStatus(status)
}

func (s *orderService) ListByPaymentStatus(status model.PaymentStatus) ([]model.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown payment status: " + string(status))
	}
	return s.orderRepo.FindByPaymentStatus(status)
}

func (s *orderService) ListByDateRange(start, end time.Time, page, size int) ([]model.Order, int64, error) {
	return s.orderRepo.FindByOrderDateBetween(start, end, page, size)
}

func (s *orderService) UpdateOrder(id uuid.UUID, req *UpdateOrderRequest, actor string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "order")
	}

	if req.OrderNumber != "" && req.OrderNumber != order.OrderNumber {
		exists, err := s.orderRepo.ExistsByNumber(req.OrderNumber)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if exists {
			return nil, apperr.Duplicate("order number", req.OrderNumber)
		}
		order.OrderNumber = req.OrderNumber
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	if req.DeliveryDate != nil {
		order.DeliveryDate = req.DeliveryDate
	}
	if req.DiscountAmount != nil {
		if req.DiscountAmount.IsNegative() {
			return nil, apperr.Validation("discount amount cannot be negative")
		}
		order.DiscountAmount = *req.DiscountAmount
	}
	if req.TaxAmount != nil {
		if req.TaxAmount.IsNegative() {
			return nil, apperr.Validation("tax amount cannot be negative")
		}
		order.TaxAmount = *req.TaxAmount
	}
	if req.PaymentMethod != nil {
		order.PaymentMethod = *req.PaymentMethod
	}
	if req.ShippingAddress != nil {
		order.ShippingAddress = *req.ShippingAddress
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	// Postcondition of every amount mutation, not a call-site courtesy.
	order.CalculateFinalAmount()
	if order.FinalAmount.IsNegative() {
		return nil, apperr.Validation("final amount cannot be negative")
	}

	order.UpdatedBy = actor
	if err := s.orderRepo.Save(order); err != nil {
		return nil, apperr.Internal(err)
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(id uuid.UUID, status model.OrderStatus, actor string) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown order status: " + string(status))
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "order")
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, apperr.InvalidTransition(string(order.Status), string(status))
	}

	// A pure status transition mutates status only.
	if err := s.db.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":     status,
		"updated_by": actor,
	}).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	order.Status = status
	order.UpdatedBy = actor

	s.wsHub.NotifyEvent("order_status_changed", actor, map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       status,
	})

	return order, nil
}

func (s *orderService) UpdatePaymentStatus(id uuid.UUID, status model.PaymentStatus, actor string) (*model.Order, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown payment status: " + string(status))
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "order")
	}

	if err := s.db.Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_status": status,
		"updated_by":     actor,
	}).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	order.PaymentStatus = status
	order.UpdatedBy = actor
	return order, nil
}

func (s *orderService) DeleteOrder(id uuid.UUID, actor string) error {
	var orderNumber string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "order")
		}
		if order.Status != model.OrderPending {
			return apperr.Validation("only PENDING orders can be deleted")
		}
		orderNumber = order.OrderNumber

		// Restore what creation consumed, with an IN ledger entry per item.
		for _, item := range order.Items {
			var product model.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				return notFoundOr(err, "product")
			}
			if err := s.productRepo.IncrementStock(tx, item.ProductID, item.Quantity, actor); err != nil {
				return apperr.Internal(err)
			}
			entry := model.NewInventoryIn(item.ProductID, item.Quantity, product.StockQuantity,
				model.RefOrder, &order.ID, "order "+order.OrderNumber+" deleted")
			entry.CreatedBy = actor
			entry.UpdatedBy = actor
			if err := s.inventoryRepo.Create(tx, entry); err != nil {
				return apperr.Internal(err)
			}
		}

		if err := tx.Model(&model.OrderItem{}).Where("order_id = ?", order.ID).
			Update("deleted_by", actor).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("deleted_by", actor).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.wsHub.NotifyEvent("order_cancelled", actor, map[string]interface{}{
		"order_id":     id,
		"order_number": orderNumber,
	})

	return nil
}

func (s *orderService) CountByStatus() ([]repository.StatusCount, error) {
	return s.orderRepo.CountByStatus()
}

func (s *orderService) CountByPaymentStatus() ([]repository.PaymentStatusCount, error) {
	return s.orderRepo.CountByPaymentStatus()
}

func (s *orderService) SumFinalAmountBetween(start, end time.Time) (decimal.Decimal, error) {
	return s.orderRepo.SumFinalAmountBetween(start, end)
}
