package repository

import "github.com/yourusername/agroscan-api/internal/domain/entity"

// FarmRepository persists farms.
type FarmRepository interface {
	Create(farm *entity.Farm) error
	GetByID(id uint) (*entity.Farm, error)
	ListByOwner(ownerID uint) ([]entity.Farm, error)
	Update(farm *entity.Farm) error
	Delete(id uint) error
}

// FarmImageRepository persists image metadata attached to farms.
type FarmImageRepository interface {
	Create(image *entity.FarmImage) error
	ListByFarm(farmID uint) ([]entity.FarmImage, error)
}
