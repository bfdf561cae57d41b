package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

type MockFarmRepository struct {
	mock.Mock
}

func (m *MockFarmRepository) Create(farm *entity.Farm) error {
	args := m.Called(farm)
	return args.Error(0)
}

func (m *MockFarmRepository) GetByID(id uint) (*entity.Farm, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Farm), args.Error(1)
}

func (m *MockFarmRepository) ListByOwner(ownerID uint) ([]entity.Farm, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Farm), args.Error(1)
}

func (m *MockFarmRepository) Update(farm *entity.Farm) error {
	args := m.Called(farm)
	return args.Error(0)
}

func (m *MockFarmRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(report *entity.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportRepository) GetByPublicID(publicID string) (*entity.Report, error) {
	args := m.Called(publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Report), args.Error(1)
}

func (m *MockReportRepository) ListByFarm(farmID uint) ([]entity.Report, error) {
	args := m.Called(farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Report), args.Error(1)
}

func (m *MockReportRepository) GetLatestByFarm(farmID uint) (*entity.Report, error) {
	args := m.Called(farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Report), args.Error(1)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func ownedFarm() *entity.Farm {
	return &entity.Farm{ID: 1, OwnerID: 10, Name: "North Field"}
}

func TestReportService_CreateReport_Success(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockReports := new(MockReportRepository)
	mockCache := new(MockCacheRepository)

	mockFarms.On("GetByID", uint(1)).Return(ownedFarm(), nil)
	mockReports.On("Create", mock.AnythingOfType("*entity.Report")).Return(nil)
	mockCache.On("Delete", "report:summary:1").Return(nil)

	svc, err := NewReportService(mockReports, mockFarms, mockCache)
	require.NoError(t, err)

	// Act
	report, err := svc.CreateReport(1, 10, ReportInput{
		Disease:       "Late Blight",
		Confidence:    0.92,
		Severity:      "HIGH",
		AffectedShare: 0.35,
		ImageCount:    4,
		Summary:       "Spreading from the north edge.",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, report.PublicID)
	assert.Equal(t, entity.ReportSeverityHigh, report.Severity, "severity must be normalized to lowercase")
	assert.Equal(t, uint(1), report.FarmID)
	mockReports.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestReportService_CreateReport_InvalidSeverity(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockReports := new(MockReportRepository)
	mockFarms.On("GetByID", uint(1)).Return(ownedFarm(), nil)

	svc, err := NewReportService(mockReports, mockFarms, nil)
	require.NoError(t, err)

	// Act
	report, err := svc.CreateReport(1, 10, ReportInput{Severity: "catastrophic"})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, report)
	mockReports.AssertNotCalled(t, "Create")
}

func TestReportService_CreateReport_NotOwner(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockReports := new(MockReportRepository)
	mockFarms.On("GetByID", uint(1)).Return(ownedFarm(), nil)

	svc, err := NewReportService(mockReports, mockFarms, nil)
	require.NoError(t, err)

	// Act: owner is 10, caller is 99
	report, err := svc.CreateReport(1, 99, ReportInput{Severity: "low"})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Nil(t, report)
	mockReports.AssertNotCalled(t, "Create")
}

func TestReportService_GetFarmSummary_CacheHit(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockReports := new(MockReportRepository)
	mockCache := new(MockCacheRepository)

	mockFarms.On("GetByID", uint(1)).Return(ownedFarm(), nil)
	mockCache.On("GetJSON", "report:summary:1", mock.AnythingOfType("*service.FarmSummary")).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*FarmSummary)
			dest.FarmID = 1
			dest.Disease = "Rust"
			dest.Severity = entity.ReportSeverityModerate
		}).
		Return(nil)

	svc, err := NewReportService(mockReports, mockFarms, mockCache)
	require.NoError(t, err)

	// Act
	summary, err := svc.GetFarmSummary(1, 10)

	// Assert: served from cache, the store is never touched
	require.NoError(t, err)
	assert.Equal(t, "Rust", summary.Disease)
	mockReports.AssertNotCalled(t, "GetLatestByFarm")
}

func TestReportService_GetFarmSummary_CacheMissFillsCache(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockReports := new(MockReportRepository)
	mockCache := new(MockCacheRepository)

	latest := &entity.Report{
		PublicID:      "pub-1",
		FarmID:        1,
		Disease:       "Late Blight",
		Severity:      entity.ReportSeverityHigh,
		AffectedShare: 0.4,
		GeneratedAt:   time.Now(),
	}

	mockFarms.On("GetByID", uint(1)).Return(ownedFarm(), nil)
	mockCache.On("GetJSON", "report:summary:1", mock.Anything).Return(apperrors.ErrNotFound)
	mockReports.On("GetLatestByFarm", uint(1)).Return(latest, nil)
	mockCache.On("SetJSON", "report:summary:1", mock.AnythingOfType("*service.FarmSummary"), farmSummaryCacheTTL).Return(nil)

	svc, err := NewReportService(mockReports, mockFarms, mockCache)
	require.NoError(t, err)

	// Act
	summary, err := svc.GetFarmSummary(1, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pub-1", summary.ReportID)
	assert.Equal(t, entity.ReportSeverityHigh, summary.Severity)
	mockCache.AssertExpectations(t)
	mockReports.AssertExpectations(t)
}

func TestReportService_GetReport_ChecksFarmOwnership(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockReports := new(MockReportRepository)

	report := &entity.Report{PublicID: "pub-1", FarmID: 1}
	mockReports.On("GetByPublicID", "pub-1").Return(report, nil)
	mockFarms.On("GetByID", uint(1)).Return(ownedFarm(), nil)

	svc, err := NewReportService(mockReports, mockFarms, nil)
	require.NoError(t, err)

	// Act / Assert: owner sees it
	got, err := svc.GetReport("pub-1", 10)
	require.NoError(t, err)
	assert.Equal(t, "pub-1", got.PublicID)

	// Act / Assert: anyone else does not
	_, err = svc.GetReport("pub-1", 99)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
