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

type MockFarmImageRepository struct {
	mock.Mock
}

func (m *MockFarmImageRepository) Create(image *entity.FarmImage) error {
	args := m.Called(image)
	return args.Error(0)
}

func (m *MockFarmImageRepository) ListByFarm(farmID uint) ([]entity.FarmImage, error) {
	args := m.Called(farmID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FarmImage), args.Error(1)
}

func newTestFarmService(t *testing.T, farms *MockFarmRepository, images *MockFarmImageRepository) *FarmService {
	t.Helper()
	svc, err := NewFarmService(farms, images)
	require.NoError(t, err)
	return svc
}

func TestFarmService_CreateFarm_Success(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockFarms.On("Create", mock.AnythingOfType("*entity.Farm")).Return(nil)
	svc := newTestFarmService(t, mockFarms, new(MockFarmImageRepository))

	// Act
	farm, err := svc.CreateFarm(10, FarmInput{
		Name:         "  North Field  ",
		Location:     "Valencia",
		AreaHectares: 12.5,
		CropType:     "tomato",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "North Field", farm.Name, "name must be trimmed")
	assert.Equal(t, uint(10), farm.OwnerID)
	mockFarms.AssertExpectations(t)
}

func TestFarmService_CreateFarm_EmptyName(t *testing.T) {
	mockFarms := new(MockFarmRepository)
	svc := newTestFarmService(t, mockFarms, new(MockFarmImageRepository))

	farm, err := svc.CreateFarm(10, FarmInput{Name: "   "})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, farm)
	mockFarms.AssertNotCalled(t, "Create")
}

func TestFarmService_GetFarm_NotOwner(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockFarms.On("GetByID", uint(1)).Return(&entity.Farm{ID: 1, OwnerID: 10}, nil)
	svc := newTestFarmService(t, mockFarms, new(MockFarmImageRepository))

	// Act
	farm, err := svc.GetFarm(1, 99)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Nil(t, farm)
}

func TestFarmService_AddImage_Success(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockImages := new(MockFarmImageRepository)
	mockFarms.On("GetByID", uint(1)).Return(&entity.Farm{ID: 1, OwnerID: 10}, nil)
	mockImages.On("Create", mock.AnythingOfType("*entity.FarmImage")).Return(nil)
	svc := newTestFarmService(t, mockFarms, mockImages)

	capturedAt := time.Now().Add(-time.Hour)

	// Act
	image, err := svc.AddImage(1, 10, "https://cdn.example.com/field.jpg", &capturedAt)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, image.PublicID)
	assert.Equal(t, uint(1), image.FarmID)
	mockImages.AssertExpectations(t)
}

func TestFarmService_AddImage_MissingURL(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockImages := new(MockFarmImageRepository)
	mockFarms.On("GetByID", uint(1)).Return(&entity.Farm{ID: 1, OwnerID: 10}, nil)
	svc := newTestFarmService(t, mockFarms, mockImages)

	// Act
	image, err := svc.AddImage(1, 10, "   ", nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Nil(t, image)
	mockImages.AssertNotCalled(t, "Create")
}

func TestFarmService_DeleteFarm_ChecksOwnership(t *testing.T) {
	// Arrange
	mockFarms := new(MockFarmRepository)
	mockFarms.On("GetByID", uint(1)).Return(&entity.Farm{ID: 1, OwnerID: 10}, nil)
	mockFarms.On("Delete", uint(1)).Return(nil)
	svc := newTestFarmService(t, mockFarms, new(MockFarmImageRepository))

	// Act / Assert
	assert.ErrorIs(t, svc.DeleteFarm(1, 99), apperrors.ErrForbidden)
	require.NoError(t, svc.DeleteFarm(1, 10))
	mockFarms.AssertExpectations(t)
}
