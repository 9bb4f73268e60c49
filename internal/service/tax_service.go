package service

import (
	"errors"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/validator"

	"gorm.io/gorm"
)

type TaxService interface {
	CreateTaxType(req *model.TaxType, actor Actor) error
	UpdateTaxType(id string, req *model.TaxType, actor Actor) (*model.TaxType, error)
	DeleteTaxType(id string) error
	GetAllTaxTypes() ([]model.TaxType, error)
	GetEnabledTaxTypes() ([]model.TaxType, error)
}

type taxService struct {
	taxTypeRepo repository.TaxTypeRepository
}

func NewTaxService(taxTypeRepo repository.TaxTypeRepository) TaxService {
	return &taxService{taxTypeRepo: taxTypeRepo}
}

func (s *taxService) CreateTaxType(req *model.TaxType, actor Actor) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationErr(errs)
	}

	existing, _ := s.taxTypeRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != "" {
		return ErrTaxCodeExists
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	return s.taxTypeRepo.Create(req)
}

func (s *taxService) UpdateTaxType(id string, req *model.TaxType, actor Actor) (*model.TaxType, error) {
	existing, err := s.taxTypeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaxTypeNotFound
		}
		return nil, err
	}

	if req.Code != existing.Code {
		if dup, _ := s.taxTypeRepo.FindByCode(req.Code); dup != nil && dup.ID != "" {
			return nil, ErrTaxCodeExists
		}
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Rate = req.Rate
	existing.Enabled = req.Enabled
	existing.UpdatedBy = actor.ID

	if err := s.taxTypeRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *taxService) DeleteTaxType(id string) error {
	if _, err := s.taxTypeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaxTypeNotFound
		}
		return err
	}
	return s.taxTypeRepo.Delete(id)
}

func (s *taxService) GetAllTaxTypes() ([]model.TaxType, error) {
	return s.taxTypeRepo.FindAll()
}

func (s *taxService) GetEnabledTaxTypes() ([]model.TaxType, error) {
	return s.taxTypeRepo.FindEnabled()
}
