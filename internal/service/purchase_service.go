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

// PurchaseOrderService drives the Draft -> Submitted -> Received lifecycle.
// Receipt increments stock for every line item in one transaction; a failure
// on any item rolls the whole receipt back.
type PurchaseOrderService interface {
	Create(req *CreatePurchaseOrderRequest, userID string) (*model.PurchaseOrder, error)
	Transition(orderID uuid.UUID, newStatus model.PurchaseOrderStatus, userID string) (*model.PurchaseOrder, error)
	Get(orderID uuid.UUID) (*model.PurchaseOrder, error)
	GetAll() ([]model.PurchaseOrder, error)
	Delete(orderID uuid.UUID) error
}

type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID                  `json:"supplier" validate:"uuid_required"`
	ItemsData  []PurchaseOrderItemRequest `json:"items_data" validate:"required,min=1,dive"`
}

type PurchaseOrderItemRequest struct {
	VariationID     uuid.UUID       `json:"product_variation" validate:"uuid_required"`
	QuantityOrdered int             `json:"quantity_ordered" validate:"required,gt=0"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
}

type purchaseOrderService struct {
	orderRepo     repository.PurchaseOrderRepository
	supplierRepo  repository.SupplierRepository
	variationRepo repository.VariationRepository
	movementRepo  repository.StockMovementRepository
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewPurchaseOrderService(
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	variationRepo repository.VariationRepository,
	movementRepo repository.StockMovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) PurchaseOrderService {
	return &purchaseOrderService{
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
		variationRepo: variationRepo,
		movementRepo:  movementRepo,
		db:            db,
		wsHub:         hub,
	}
}

func (s *purchaseOrderService) publish(eventType string, payload map[string]interface{}) {
	if s.wsHub != nil {
		s.wsHub.PublishEvent(eventType, payload)
	}
}

func (s *purchaseOrderService) Create(req *CreatePurchaseOrderRequest, userID string) (*model.PurchaseOrder, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	if _, err := s.supplierRepo.FindByID(req.SupplierID); err != nil {
		return nil, apperr.Validation("unknown supplier '%s'", req.SupplierID)
	}

	items := make([]model.PurchaseOrderItem, 0, len(req.ItemsData))
	for _, item := range req.ItemsData {
		if item.CostPerUnit.IsNegative() {
			return nil, apperr.Validation("cost_per_unit must not be negative")
		}
		if _, err := s.variationRepo.FindByID(item.VariationID); err != nil {
			return nil, apperr.Validation("unknown variation '%s'", item.VariationID)
		}
		items = append(items, model.PurchaseOrderItem{
			VariationID:     item.VariationID,
			QuantityOrdered: item.QuantityOrdered,
			CostPerUnit:     item.CostPerUnit,
		})
	}

	order := &model.PurchaseOrder{
		SupplierID: req.SupplierID,
		Status:     model.PurchaseDraft,
		Items:      items,
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
		"action": "purchase_order_created",
		"order":  map[string]interface{}{"id": created.ID, "status": created.Status},
	})
	return created, nil
}

// Transition advances the order by exactly one step. Receipt applies all
// stock increments and the status change as one atomic unit.
func (s *purchaseOrderService) Transition(orderID uuid.UUID, newStatus model.PurchaseOrderStatus, userID string) (*model.PurchaseOrder, error) {
	switch newStatus {
	case model.PurchaseDraft, model.PurchaseSubmitted, model.PurchaseReceived:
	default:
		return nil, apperr.Validation("unknown purchase order status '%s'", newStatus)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDTx(tx, orderID)
		if err != nil {
			return apperr.NotFound("purchase order")
		}

		next, ok := model.NextPurchaseStatus(order.Status)
		if !ok || next != newStatus {
			return apperr.InvalidTransition(string(order.Status), string(newStatus))
		}

		// Claim the transition before any stock effect: the guarded status
		// write settles which of two rival requests wins, so a stale rival
		// never re-applies the receipt.
		applied, err := s.orderRepo.UpdateStatus(tx, orderID, order.Status, newStatus, userID)
		if err != nil {
			return err
		}
		if !applied {
			current, err := s.orderRepo.FindByIDTx(tx, orderID)
			if err != nil {
				return apperr.NotFound("purchase order")
			}
			return apperr.InvalidTransition(string(current.Status), string(newStatus))
		}

		if newStatus == model.PurchaseReceived {
			for _, item := range order.Items {
				applied, err := s.variationRepo.AdjustStock(tx, item.VariationID, item.QuantityOrdered)
				if err != nil {
					return err
				}
				if !applied {
					// Increments only fail when the row is gone
					return apperr.NotFound("variation")
				}

				refID := order.ID
				movement := &model.StockMovement{
					VariationID: item.VariationID,
					Type:        model.MovementIn,
					Quantity:    item.QuantityOrdered,
					ReferenceID: &refID,
					Note:        "purchase order receipt",
				}
				movement.CreatedBy = userID
				movement.UpdatedBy = userID
				if err := s.movementRepo.Create(tx, movement); err != nil {
					return err
				}
			}
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

	if newStatus == model.PurchaseReceived {
		log.Printf("purchase order %s received: %d line items restocked", orderID, len(updated.Items))
	}
	s.publish("order_update", map[string]interface{}{
		"action": "purchase_order_transitioned",
		"order":  map[string]interface{}{"id": updated.ID, "status": updated.Status},
	})
	return updated, nil
}

func (s *purchaseOrderService) Get(orderID uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, apperr.NotFound("purchase order")
	}
	return order, nil
}

func (s *purchaseOrderService) GetAll() ([]model.PurchaseOrder, error) {
	return s.orderRepo.FindAll()
}

// Delete removes an order that has not left Draft. Submitted and Received
// orders are part of the stock history and stay.
func (s *purchaseOrderService) Delete(orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return apperr.NotFound("purchase order")
	}
	if order.Status != model.PurchaseDraft {
		return apperr.InvalidTransition(string(order.Status), "deleted")
	}
	return s.orderRepo.Delete(orderID)
}
