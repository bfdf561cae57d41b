package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	"github.com/yourusername/agroscan-api/internal/domain/repository"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

// FarmService manages farms and their image metadata, scoped to the owning
// account.
type FarmService struct {
	farms  repository.FarmRepository
	images repository.FarmImageRepository
}

func NewFarmService(farms repository.FarmRepository, images repository.FarmImageRepository) (*FarmService, error) {
	if farms == nil {
		return nil, fmt.Errorf("farm repository is required")
	}
	if images == nil {
		return nil, fmt.Errorf("farm image repository is required")
	}
	return &FarmService{farms: farms, images: images}, nil
}

// FarmInput carries the mutable farm fields.
type FarmInput struct {
	Name         string
	Location     string
	AreaHectares float64
	CropType     string
}

func (s *FarmService) CreateFarm(ownerID uint, input FarmInput) (*entity.Farm, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: farm name is required", apperrors.ErrValidation)
	}
	if input.AreaHectares < 0 {
		return nil, fmt.Errorf("%w: area cannot be negative", apperrors.ErrValidation)
	}

	farm := &entity.Farm{
		OwnerID:      ownerID,
		Name:         input.Name,
		Location:     strings.TrimSpace(input.Location),
		AreaHectares: input.AreaHectares,
		CropType:     strings.TrimSpace(input.CropType),
	}
	if err := s.farms.Create(farm); err != nil {
		return nil, fmt.Errorf("failed to create farm: %w", err)
	}
	return farm, nil
}

func (s *FarmService) ListFarms(ownerID uint) ([]entity.Farm, error) {
	return s.farms.ListByOwner(ownerID)
}

// GetFarm returns a farm after verifying ownership.
func (s *FarmService) GetFarm(farmID, ownerID uint) (*entity.Farm, error) {
	farm, err := s.farms.GetByID(farmID)
	if err != nil {
		return nil, err
	}
	if farm.OwnerID != ownerID {
		return nil, apperrors.ErrForbidden
	}
	return farm, nil
}

func (s *FarmService) UpdateFarm(farmID, ownerID uint, input FarmInput) (*entity.Farm, error) {
	farm, err := s.GetFarm(farmID, ownerID)
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: farm name is required", apperrors.ErrValidation)
	}
	farm.Name = input.Name
	farm.Location = strings.TrimSpace(input.Location)
	farm.AreaHectares = input.AreaHectares
	farm.CropType = strings.TrimSpace(input.CropType)

	if err := s.farms.Update(farm); err != nil {
		return nil, fmt.Errorf("failed to update farm: %w", err)
	}
	return farm, nil
}

func (s *FarmService) DeleteFarm(farmID, ownerID uint) error {
	if _, err := s.GetFarm(farmID, ownerID); err != nil {
		return err
	}
	return s.farms.Delete(farmID)
}

// AddImage records image metadata for a farm. The binary lives in external
// storage; only the URL is tracked.
func (s *FarmService) AddImage(farmID, ownerID uint, url string, capturedAt *time.Time) (*entity.FarmImage, error) {
	if _, err := s.GetFarm(farmID, ownerID); err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: image url is required", apperrors.ErrValidation)
	}

	image := &entity.FarmImage{
		PublicID:   uuid.NewString(),
		FarmID:     farmID,
		URL:        url,
		CapturedAt: capturedAt,
	}
	if err := s.images.Create(image); err != nil {
		return nil, fmt.Errorf("failed to record farm image: %w", err)
	}
	return image, nil
}

func (s *FarmService) ListImages(farmID, ownerID uint) ([]entity.FarmImage, error) {
	if _, err := s.GetFarm(farmID, ownerID); err != nil {
		return nil, err
	}
	return s.images.ListByFarm(farmID)
}

// ownershipErr maps a farm lookup error for callers that only need the
// pass/fail answer.
func ownershipErr(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrForbidden) {
		return err
	}
	return fmt.Errorf("failed to verify farm ownership: %w", err)
}
