package repository

import (
	"go-pos-ws/internal/model"

	"gorm.io/gorm"
)

type TaxTypeRepository interface {
	Create(taxType *model.TaxType) error
	FindAll() ([]model.TaxType, error)
	FindByID(id string) (*model.TaxType, error)
	FindByCode(code string) (*model.TaxType, error)
	FindEnabled() ([]model.TaxType, error)
	Update(taxType *model.TaxType) error
	Delete(id string) error
}

type taxTypeRepo struct {
	db *gorm.DB
}

func NewTaxTypeRepo(db *gorm.DB) TaxTypeRepository {
	return &taxTypeRepo{db}
}

func (r *taxTypeRepo) Create(taxType *model.TaxType) error {
	return r.db.Create(taxType).Error
}

func (r *taxTypeRepo) FindAll() ([]model.TaxType, error) {
	var types []model.TaxType
	err := r.db.Order("created_at ASC").Find(&types).Error
	return types, err
}

func (r *taxTypeRepo) FindByID(id string) (*model.TaxType, error) {
	var taxType model.TaxType
	err := r.db.First(&taxType, "id = ?", id).Error
	return &taxType, err
}

func (r *taxTypeRepo) FindByCode(code string) (*model.TaxType, error) {
	var taxType model.TaxType
	err := r.db.First(&taxType, "code = ?", code).Error
	return &taxType, err
}

// FindEnabled keeps insertion order so tax lines come out stable
func (r *taxTypeRepo) FindEnabled() ([]model.TaxType, error) {
	var types []model.TaxType
	err := r.db.Where("enabled = ?", true).Order("created_at ASC").Find(&types).Error
	return types, err
}

func (r *taxTypeRepo) Update(taxType *model.TaxType) error {
	return r.db.Save(taxType).Error
}

func (r *taxTypeRepo) Delete(id string) error {
	return r.db.Delete(&model.TaxType{}, "id = ?", id).Error
}
