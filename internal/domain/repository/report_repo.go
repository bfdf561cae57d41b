package repository

import "github.com/yourusername/agroscan-api/internal/domain/entity"

// ReportRepository persists crop-health reports.
type ReportRepository interface {
	Create(report *entity.Report) error
	GetByPublicID(publicID string) (*entity.Report, error)
	ListByFarm(farmID uint) ([]entity.Report, error)
	GetLatestByFarm(farmID uint) (*entity.Report, error)
}
