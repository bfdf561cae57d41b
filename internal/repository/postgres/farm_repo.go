package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

// FarmRepo implements repository.FarmRepository.
type FarmRepo struct {
	db *gorm.DB
}

func NewFarmRepo(db *gorm.DB) *FarmRepo {
	return &FarmRepo{db: db}
}

func (r *FarmRepo) Create(farm *entity.Farm) error {
	return r.db.Create(farm).Error
}

func (r *FarmRepo) GetByID(id uint) (*entity.Farm, error) {
	var farm entity.Farm
	err := r.db.First(&farm, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &farm, nil
}

func (r *FarmRepo) ListByOwner(ownerID uint) ([]entity.Farm, error) {
	var farms []entity.Farm
	err := r.db.Where("owner_id = ?", ownerID).Order("id").Find(&farms).Error
	return farms, err
}

func (r *FarmRepo) Update(farm *entity.Farm) error {
	return r.db.Save(farm).Error
}

func (r *FarmRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Farm{}, id).Error
}

// FarmImageRepo implements repository.FarmImageRepository.
type FarmImageRepo struct {
	db *gorm.DB
}

func NewFarmImageRepo(db *gorm.DB) *FarmImageRepo {
	return &FarmImageRepo{db: db}
}

func (r *FarmImageRepo) Create(image *entity.FarmImage) error {
	return r.db.Create(image).Error
}

func (r *FarmImageRepo) ListByFarm(farmID uint) ([]entity.FarmImage, error) {
	var images []entity.FarmImage
	err := r.db.Where("farm_id = ?", farmID).Order("id").Find(&images).Error
	return images, err
}
