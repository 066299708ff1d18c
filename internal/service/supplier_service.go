package service

import (
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/pkg/apperr"
	"stockroom/pkg/validator"

	"github.com/google/uuid"
)

type SupplierService interface {
	Create(req *model.Supplier, userID string) error
	Update(id uuid.UUID, req *model.Supplier, userID string) (*model.Supplier, error)
	Delete(id uuid.UUID) error
	Get(id uuid.UUID) (*model.Supplier, error)
	GetAll() ([]model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

func (s *supplierService) Create(req *model.Supplier, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.ValidationFields(validator.FieldErrors(errs))
	}
	req.CreatedBy = userID
	req.UpdatedBy = userID
	return s.supplierRepo.Create(req)
}

func (s *supplierService) Update(id uuid.UUID, req *model.Supplier, userID string) (*model.Supplier, error) {
	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("supplier")
	}

	existing.Name = req.Name
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		return nil, apperr.ValidationFields(validator.FieldErrors(errs))
	}

	if err := s.supplierRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete rejects removal while purchase orders still reference the
// supplier, so no order is ever orphaned.
func (s *supplierService) Delete(id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		return apperr.NotFound("supplier")
	}

	count, err := s.supplierRepo.CountOrders(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("supplier is referenced by %d purchase order(s) and cannot be deleted", count)
	}
	return s.supplierRepo.Delete(id)
}

func (s *supplierService) Get(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("supplier")
	}
	return supplier, nil
}

func (s *supplierService) GetAll() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}
