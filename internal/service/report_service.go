package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	"github.com/yourusername/agroscan-api/internal/domain/repository"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

const farmSummaryCacheTTL = 5 * time.Minute

// ReportService manages crop-health reports. The latest-report summary per
// farm is cached in Redis; the cache is advisory and every miss or error
// falls through to the store.
type ReportService struct {
	reports repository.ReportRepository
	farms   repository.FarmRepository
	cache   repository.CacheRepository
}

func NewReportService(
	reports repository.ReportRepository,
	farms repository.FarmRepository,
	cache repository.CacheRepository,
) (*ReportService, error) {
	if reports == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	if farms == nil {
		return nil, fmt.Errorf("farm repository is required")
	}
	// cache may be nil when Redis is not configured
	return &ReportService{reports: reports, farms: farms, cache: cache}, nil
}

// ReportInput carries the fields of a generated crop-health report.
type ReportInput struct {
	Disease       string
	Confidence    float64
	Severity      string
	AffectedShare float64
	ImageCount    int
	Summary       string
}

// FarmSummary is the cached latest-report view of a farm.
type FarmSummary struct {
	FarmID        uint      `json:"farm_id"`
	ReportID      string    `json:"report_id"`
	Disease       string    `json:"disease"`
	Severity      string    `json:"severity"`
	AffectedShare float64   `json:"affected_share"`
	GeneratedAt   time.Time `json:"generated_at"`
}

func (s *ReportService) CreateReport(farmID, ownerID uint, input ReportInput) (*entity.Report, error) {
	if err := s.checkOwnership(farmID, ownerID); err != nil {
		return nil, err
	}

	input.Severity = strings.ToLower(strings.TrimSpace(input.Severity))
	switch input.Severity {
	case entity.ReportSeverityLow, entity.ReportSeverityModerate, entity.ReportSeverityHigh:
	default:
		return nil, fmt.Errorf("%w: invalid severity %q", apperrors.ErrValidation, input.Severity)
	}
	if input.Confidence < 0 || input.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence must be in [0,1]", apperrors.ErrValidation)
	}
	if input.AffectedShare < 0 || input.AffectedShare > 1 {
		return nil, fmt.Errorf("%w: affected share must be in [0,1]", apperrors.ErrValidation)
	}

	report := &entity.Report{
		PublicID:      uuid.NewString(),
		FarmID:        farmID,
		Disease:       strings.TrimSpace(input.Disease),
		Confidence:    input.Confidence,
		Severity:      input.Severity,
		AffectedShare: input.AffectedShare,
		ImageCount:    input.ImageCount,
		Summary:       strings.TrimSpace(input.Summary),
		GeneratedAt:   time.Now(),
	}
	if err := s.reports.Create(report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(farmSummaryKey(farmID)); err != nil {
			log.Printf("[ReportService] failed to invalidate summary cache for farm ID=%d: %v", farmID, err)
		}
	}
	return report, nil
}

func (s *ReportService) ListReports(farmID, ownerID uint) ([]entity.Report, error) {
	if err := s.checkOwnership(farmID, ownerID); err != nil {
		return nil, err
	}
	return s.reports.ListByFarm(farmID)
}

// GetReport resolves a report by its public ID and verifies the caller owns
// the farm it belongs to.
func (s *ReportService) GetReport(publicID string, ownerID uint) (*entity.Report, error) {
	report, err := s.reports.GetByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(report.FarmID, ownerID); err != nil {
		return nil, err
	}
	return report, nil
}

// GetFarmSummary returns the latest-report summary for a farm, served from
// cache when fresh.
func (s *ReportService) GetFarmSummary(farmID, ownerID uint) (*FarmSummary, error) {
	if err := s.checkOwnership(farmID, ownerID); err != nil {
		return nil, err
	}

	key := farmSummaryKey(farmID)
	if s.cache != nil {
		var cached FarmSummary
		if err := s.cache.GetJSON(key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ReportService] summary cache read failed for farm ID=%d: %v", farmID, err)
		}
	}

	latest, err := s.reports.GetLatestByFarm(farmID)
	if err != nil {
		return nil, err
	}

	summary := &FarmSummary{
		FarmID:        farmID,
		ReportID:      latest.PublicID,
		Disease:       latest.Disease,
		Severity:      latest.Severity,
		AffectedShare: latest.AffectedShare,
		GeneratedAt:   latest.GeneratedAt,
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(key, summary, farmSummaryCacheTTL); err != nil {
			log.Printf("[ReportService] summary cache write failed for farm ID=%d: %v", farmID, err)
		}
	}
	return summary, nil
}

func (s *ReportService) checkOwnership(farmID, ownerID uint) error {
	farm, err := s.farms.GetByID(farmID)
	if err != nil {
		return ownershipErr(err)
	}
	if farm.OwnerID != ownerID {
		return apperrors.ErrForbidden
	}
	return nil
}

func farmSummaryKey(farmID uint) string {
	return fmt.Sprintf("report:summary:%d", farmID)
}
