package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
	"github.com/deniortyann66-art/vite-et-gourmand/utils"
)

const defaultCustomerCancelReason = "Annulation par le client"

// Notifier receives order events for asynchronous customer notification.
// Implementations must never block the caller.
type Notifier interface {
	OrderCreated(order *models.Order)
	OrderCompleted(order *models.Order)
}

// CreateOrderInput carries the customer-supplied fields of a new order.
type CreateOrderInput struct {
	MenuID         uint
	PeopleCount    int
	ServiceAddress string
	ServiceCity    string
	ServiceDate    time.Time
	ServiceTime    string
	Km             decimal.Decimal
}

// EditOrderInput carries the optional fields of an order edit. Nil fields
// are left untouched. Menu and customer are immutable after creation.
type EditOrderInput struct {
	ServiceAddress *string
	ServiceCity    *string
	ServiceDate    *time.Time
	ServiceTime    *string
	PeopleCount    *int
	Km             *decimal.Decimal
}

// OrderService owns the order lifecycle: creation with stock reservation,
// edits, status transitions with their audit trail, and cancellation with
// stock release. Every mutation runs in a single database transaction.
type OrderService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewOrderService(db *gorm.DB, notifier Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

// Create places a new order for the acting customer. It reserves one unit
// of menu stock, computes the price breakdown and writes the initial
// "received" history entry, all atomically.
func (s *OrderService) Create(actor models.Actor, in CreateOrderInput) (*models.Order, error) {
	if err := validateServiceFields(in.ServiceAddress, in.ServiceCity, in.ServiceDate, in.ServiceTime); err != nil {
		return nil, err
	}
	if in.Km.IsNegative() {
		in.Km = decimal.Zero
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var menu models.Menu
		if err := tx.First(&menu, in.MenuID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("menu %d: %w", in.MenuID, models.ErrNotFound)
			}
			return err
		}

		if in.PeopleCount < menu.MinPeople {
			return fmt.Errorf("people_count must be at least %d: %w", menu.MinPeople, models.ErrInvalidInput)
		}

		// Guarded decrement: the WHERE clause makes two concurrent
		// reservations of the last unit impossible.
		res := tx.Model(&models.Menu{}).
			Where("id = ? AND stock > 0", menu.ID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("menu %d: %w", menu.ID, models.ErrOutOfStock)
		}

		prices := ComputePrices(&menu, in.PeopleCount, in.ServiceCity, in.Km)

		order = models.Order{
			UserID:         actor.ID,
			MenuID:         menu.ID,
			ServiceAddress: in.ServiceAddress,
			ServiceCity:    in.ServiceCity,
			ServiceDate:    in.ServiceDate,
			ServiceTime:    in.ServiceTime,
			PeopleCount:    in.PeopleCount,
			Km:             in.Km,
			MenuPrice:      prices.MenuPrice,
			Discount:       prices.Discount,
			DeliveryPrice:  prices.DeliveryPrice,
			Total:          prices.Total,
			Status:         models.OrderStatusReceived,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return appendStatusHistory(tx, order.ID, models.OrderStatusReceived)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Menu").Preload("User").Preload("StatusHistory").
		First(&order, order.ID).Error; err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(&order)
	}

	return &order, nil
}

// Get returns one order with its menu, history and review. Customers may
// only read their own orders; staff may read any.
func (s *OrderService) Get(actor models.Actor, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Menu").Preload("User").Preload("StatusHistory").Preload("Review").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
		}
		return nil, err
	}
	if !actor.IsStaff() && order.UserID != actor.ID {
		return nil, fmt.Errorf("order %d: %w", orderID, models.ErrForbidden)
	}
	return &order, nil
}

// ListForCustomer returns the actor's own orders, newest first.
func (s *OrderService) ListForCustomer(actor models.Actor) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Menu").Preload("StatusHistory").Preload("Review").
		Where("user_id = ?", actor.ID).
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// ListAll returns every order for the staff order board, optionally
// filtered by status and/or customer email.
func (s *OrderService) ListAll(actor models.Actor, status, email string) ([]models.Order, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("order listing: %w", models.ErrForbidden)
	}

	query := s.db.Preload("Menu").Preload("User").Preload("StatusHistory").
		Order("orders.id DESC")
	if status != "" {
		query = query.Where("orders.status = ?", status)
	}
	if email != "" {
		query = query.Joins("JOIN users ON users.id = orders.user_id").
			Where("users.email = ?", email)
	}

	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

// Edit updates a "received" order owned by the actor and recomputes its
// price breakdown. Any other status rejects the edit.
func (s *OrderService) Edit(actor models.Actor, orderID uint, in EditOrderInput) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Menu").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
			}
			return err
		}
		if order.UserID != actor.ID {
			return fmt.Errorf("order %d: %w", orderID, models.ErrForbidden)
		}
		if order.Status != models.OrderStatusReceived {
			return fmt.Errorf("order %d already handled: %w", orderID, models.ErrConflict)
		}

		if in.ServiceAddress != nil {
			order.ServiceAddress = *in.ServiceAddress
		}
		if in.ServiceCity != nil {
			order.ServiceCity = *in.ServiceCity
		}
		if in.ServiceDate != nil {
			order.ServiceDate = *in.ServiceDate
		}
		if in.ServiceTime != nil {
			order.ServiceTime = *in.ServiceTime
		}
		if in.PeopleCount != nil {
			if *in.PeopleCount < order.Menu.MinPeople {
				return fmt.Errorf("people_count must be at least %d: %w", order.Menu.MinPeople, models.ErrInvalidInput)
			}
			order.PeopleCount = *in.PeopleCount
		}
		if in.Km != nil {
			order.Km = *in.Km
			if order.Km.IsNegative() {
				order.Km = decimal.Zero
			}
		}
		if err := validateServiceFields(order.ServiceAddress, order.ServiceCity, order.ServiceDate, order.ServiceTime); err != nil {
			return err
		}

		prices := ComputePrices(&order.Menu, order.PeopleCount, order.ServiceCity, order.Km)
		order.MenuPrice = prices.MenuPrice
		order.Discount = prices.Discount
		order.DeliveryPrice = prices.DeliveryPrice
		order.Total = prices.Total

		// The status guard keeps a concurrent staff transition from
		// racing the edit.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusReceived).
			Updates(map[string]interface{}{
				"service_address": order.ServiceAddress,
				"service_city":    order.ServiceCity,
				"service_date":    order.ServiceDate,
				"service_time":    order.ServiceTime,
				"people_count":    order.PeopleCount,
				"km":              order.Km,
				"menu_price":      order.MenuPrice,
				"discount":        order.Discount,
				"delivery_price":  order.DeliveryPrice,
				"total":           order.Total,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d already handled: %w", orderID, models.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// SetStatus performs a staff status transition and appends the audit
// entry. Terminal orders reject any transition; cancellation goes through
// Cancel so the mandatory reason and stock release cannot be bypassed.
func (s *OrderService) SetStatus(actor models.Actor, orderID uint, newStatus string) (*models.Order, error) {
	if !actor.IsStaff() {
		return nil, fmt.Errorf("status change: %w", models.ErrForbidden)
	}
	if !models.IsValidOrderStatus(newStatus) {
		return nil, fmt.Errorf("unknown status %q: %w", newStatus, models.ErrInvalidInput)
	}
	if newStatus == models.OrderStatusCancelled {
		return nil, fmt.Errorf("cancellation requires a reason, use the cancel operation: %w", models.ErrInvalidInput)
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").Preload("Menu").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
			}
			return err
		}
		if models.IsTerminalOrderStatus(order.Status) {
			return fmt.Errorf("order %d is %s: %w", orderID, order.Status, models.ErrConflict)
		}

		if err := transitionStatus(tx, &order, newStatus); err != nil {
			return err
		}
		return appendStatusHistory(tx, order.ID, newStatus)
	})
	if err != nil {
		return nil, err
	}

	if newStatus == models.OrderStatusCompleted && s.notifier != nil {
		s.notifier.OrderCompleted(&order)
	}

	return &order, nil
}

// Cancel moves an order to the absorbing cancelled state and returns its
// stock unit. Customers may cancel their own order only while it is still
// "received"; staff may cancel any non-terminal order with a mandatory
// reason.
func (s *OrderService) Cancel(actor models.Actor, orderID uint, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Menu").Preload("User").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", orderID, models.ErrNotFound)
			}
			return err
		}

		if actor.IsStaff() {
			if reason == "" {
				return fmt.Errorf("cancel_reason is required: %w", models.ErrInvalidInput)
			}
			if models.IsTerminalOrderStatus(order.Status) {
				return fmt.Errorf("order %d is %s: %w", orderID, order.Status, models.ErrConflict)
			}
		} else {
			if order.UserID != actor.ID {
				return fmt.Errorf("order %d: %w", orderID, models.ErrForbidden)
			}
			if order.Status != models.OrderStatusReceived {
				return fmt.Errorf("order %d already handled: %w", orderID, models.ErrConflict)
			}
			if reason == "" {
				reason = defaultCustomerCancelReason
			}
		}

		if err := transitionStatus(tx, &order, models.OrderStatusCancelled); err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("cancel_reason", reason).Error; err != nil {
			return err
		}
		order.CancelReason = &reason

		if err := appendStatusHistory(tx, order.ID, models.OrderStatusCancelled); err != nil {
			return err
		}

		// Return the reserved unit. Reachable exactly once per order:
		// cancelled is absorbing and the transition above is guarded.
		return tx.Model(&models.Menu{}).Where("id = ?", order.MenuID).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order #%d cancelled: %s", order.ID, reason)

	return &order, nil
}

// transitionStatus flips order.Status with a guard on the previous value,
// so two concurrent transitions from the same state cannot both succeed.
func transitionStatus(tx *gorm.DB, order *models.Order, newStatus string) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", newStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d changed concurrently: %w", order.ID, models.ErrConflict)
	}
	order.Status = newStatus
	return nil
}

func appendStatusHistory(tx *gorm.DB, orderID uint, status string) error {
	return tx.Create(&models.OrderStatusHistory{
		OrderID:   orderID,
		Status:    status,
		ChangedAt: time.Now(),
	}).Error
}

func validateServiceFields(address, city string, date time.Time, timeOfDay string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("service_address is required: %w", models.ErrInvalidInput)
	}
	if strings.TrimSpace(city) == "" {
		return fmt.Errorf("service_city is required: %w", models.ErrInvalidInput)
	}
	if date.IsZero() {
		return fmt.Errorf("service_date is required: %w", models.ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return fmt.Errorf("service_time must be HH:MM: %w", models.ErrInvalidInput)
	}
	return nil
}
