package service

import (
	"log"

	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/ws"
	"stockroom/pkg/apperr"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesOrderService drives the Pending -> Fulfilled lifecycle. Fulfillment
// checks and decrements stock for every line item inside one transaction;
// the guarded decrement row-locks each variation, so two fulfillments
// sharing a variation cannot both pass the check and overdraw it.
type SalesOrderService interface {
	Create(req *CreateSalesOrderRequest, userID string) (*model.SalesOrder, error)
	Transition(orderID uuid.UUID, newStatus model.SalesOrderStatus, userID string) (*model.SalesOrder, error)
	Get(orderID uuid.UUID) (*model.SalesOrder, error)
	GetAll() ([]model.SalesOrder, error)
	Delete(orderID uuid.UUID) error
}

type CreateSalesOrderRequest struct {
	CustomerEmail string                  `json:"customer_email" validate:"required,email"`
	ItemsData     []SalesOrderItemRequest `json:"items_data" validate:"required,min=1,dive"`
}

type SalesOrderItemRequest struct {
	VariationID      uuid.UUID       `json:"product_variation" validate:"uuid_required"`
	QuantitySold     int             `json:"quantity_sold" validate:"required,gt=0"`
	SalePricePerUnit decimal.Decimal `json:"sale_price_per_unit"`
}

type salesOrderService struct {
	orderRepo     repository.SalesOrderRepository
	variationRepo repository.VariationRepository
	movementRepo  repository.StockMovementRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewSalesOrderService(
	orderRepo repository.SalesOrderRepository,
	variationRepo repository.VariationRepository,
	movementRepo repository.StockMovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) SalesOrderService {
	return &salesOrderService{
		orderRepo:     orderRepo,
		variationRepo: variationRepo,
		movementRepo:  movementRepo,
		db:            db,
		wsHub:         hub,
	}
}

func (s *salesOrderService) publish(eventType string, payload map[string]interface{}) {
	if s.wsHub != nil {
		s.wsHub.PublishEvent(eventType, payload)
	}
}

func (s *salesOrderService) Create(req *CreateSalesOrderRequest, userID string) (*model.SalesOrder, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	items := make([]model.SalesOrderItem, 0, len(req.ItemsData))
	for _, item := range req.ItemsData {
		if item.SalePricePerUnit.IsNegative() {
			return nil, apperr.Validation("sale_price_per_unit must not be negative")
		}
		if _, err := s.variationRepo.FindByID(item.VariationID); err != nil {
			return nil, apperr.Validation("unknown variation '%s'", item.VariationID)
		}
		items = append(items, model.SalesOrderItem{
			VariationID:      item.VariationID,
			QuantitySold:     item.QuantitySold,
			SalePricePerUnit: item.SalePricePerUnit,
		})
	}

	order := &model.SalesOrder{
		CustomerEmail: req.CustomerEmail,
		Status:        model.SalesPending,
		Items:         items,
	}
	order.CreatedBy = userID
	order.UpdatedBy = userID

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	s.publish("order_update", map[string]interface{}{
		"action": "sales_order_created",
		"order":  map[string]interface{}{"id": created.ID, "status": created.Status},
	})
	return created, nil
}

// Transition fulfills a pending order. Every item's decrement must pass the
// non-negative guard; any shortfall rolls back the transaction and reports
// all offending SKUs, leaving stock and status untouched.
func (s *salesOrderService) Transition(orderID uuid.UUID, newStatus model.SalesOrderStatus, userID string) (*model.SalesOrder, error) {
	switch newStatus {
	case model.SalesPending, model.SalesFulfilled:
	default:
		return nil, apperr.Validation("unknown sales order status '%s'", newStatus)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDTx(tx, orderID)
		if err != nil {
			return apperr.NotFound("sales order")
		}

		if order.Status != model.SalesPending || newStatus != model.SalesFulfilled {
			return apperr.InvalidTransition(string(order.Status), string(newStatus))
		}

		// Claim the transition before any stock effect: the guarded status
		// write settles which of two rival requests wins, so a stale rival
		// never deducts the same order twice.
		claimed, err := s.orderRepo.UpdateStatus(tx, orderID, model.SalesPending, model.SalesFulfilled, userID)
		if err != nil {
			return err
		}
		if !claimed {
			current, err := s.orderRepo.FindByIDTx(tx, orderID)
			if err != nil {
				return apperr.NotFound("sales order")
			}
			return apperr.InvalidTransition(string(current.Status), string(newStatus))
		}

		var shortSKUs []string
		for _, item := range order.Items {
			applied, err := s.variationRepo.AdjustStock(tx, item.VariationID, -item.QuantitySold)
			if err != nil {
				return err
			}
			if !applied {
				// The guard also fails when the variation row is gone;
				// a missing row is a lookup failure, not a shortage.
				var variation model.Variation
				if err := tx.First(&variation, "id = ?", item.VariationID).Error; err != nil {
					return apperr.NotFound("variation")
				}
				shortSKUs = append(shortSKUs, variation.SKUCode)
				continue
			}

			refID := order.ID
			movement := &model.StockMovement{
				VariationID: item.VariationID,
				Type:        model.MovementOut,
				Quantity:    item.QuantitySold,
				ReferenceID: &refID,
				Note:        "sales order fulfillment",
			}
			movement.CreatedBy = userID
			movement.UpdatedBy = userID
			if err := s.movementRepo.Create(tx, movement); err != nil {
				return err
			}
		}
		if len(shortSKUs) > 0 {
			// Rolls back every decrement already applied in this loop,
			// and the status claim with them
			return apperr.InsufficientStock(shortSKUs)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	log.Printf("sales order %s fulfilled: %d line items deducted", orderID, len(updated.Items))
	s.publish("order_update", map[string]interface{}{
		"action": "sales_order_fulfilled",
		"order":  map[string]interface{}{"id": updated.ID, "status": updated.Status},
	})
	return updated, nil
}

func (s *salesOrderService) Get(orderID uuid.UUID) (*model.SalesOrder, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, apperr.NotFound("sales order")
	}
	return order, nil
}

func (s *salesOrderService) GetAll() ([]model.SalesOrder, error) {
	return s.orderRepo.FindAll()
}

// Delete removes an order still in Pending. Fulfilled orders are part of
// the stock history and stay.
func (s *salesOrderService) Delete(orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return apperr.NotFound("sales order")
	}
	if order.Status != model.SalesPending {
		return apperr.InvalidTransition(string(order.Status), "deleted")
	}
	return s.orderRepo.Delete(orderID)
}
