package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

// ReportRepo implements repository.ReportRepository.
type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) Create(report *entity.Report) error {
	return r.db.Create(report).Error
}

func (r *ReportRepo) GetByPublicID(publicID string) (*entity.Report, error) {
	var report entity.Report
	err := r.db.Where("public_id = ?", publicID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepo) ListByFarm(farmID uint) ([]entity.Report, error) {
	var reports []entity.Report
	err := r.db.Where("farm_id = ?", farmID).Order("generated_at DESC, id DESC").Find(&reports).Error
	return reports, err
}

func (r *ReportRepo) GetLatestByFarm(farmID uint) (*entity.Report, error) {
	var report entity.Report
	err := r.db.Where("farm_id = ?", farmID).Order("generated_at DESC, id DESC").First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}
