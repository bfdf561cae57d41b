package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/agroscan-api/internal/middleware"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
	"github.com/yourusername/agroscan-api/internal/service"
)

// FarmHandler serves farm CRUD and image metadata endpoints.
type FarmHandler struct {
	farmService *service.FarmService
}

func NewFarmHandler(farmService *service.FarmService) *FarmHandler {
	return &FarmHandler{farmService: farmService}
}

// FarmRequest is the body of farm create/update requests.
type FarmRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	Location     string  `json:"location" binding:"omitempty,max=255"`
	AreaHectares float64 `json:"area_hectares" binding:"omitempty,gte=0"`
	CropType     string  `json:"crop_type" binding:"omitempty,max=50"`
}

// FarmImageRequest is the body of POST /farms/:id/images.
type FarmImageRequest struct {
	URL        string     `json:"url" binding:"required,url,max=500"`
	CapturedAt *time.Time `json:"captured_at" binding:"omitempty"`
}

func (h *FarmHandler) CreateFarm(c *gin.Context) {
	ownerID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req FarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	farm, err := h.farmService.CreateFarm(ownerID, service.FarmInput{
		Name:         req.Name,
		Location:     req.Location,
		AreaHectares: req.AreaHectares,
		CropType:     req.CropType,
	})
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, farm)
}

func (h *FarmHandler) ListFarms(c *gin.Context) {
	ownerID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	farms, err := h.farmService.ListFarms(ownerID)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"farms": farms})
}

func (h *FarmHandler) GetFarm(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	farm, err := h.farmService.GetFarm(farmID, ownerID)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, farm)
}

func (h *FarmHandler) UpdateFarm(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	var req FarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	farm, err := h.farmService.UpdateFarm(farmID, ownerID, service.FarmInput{
		Name:         req.Name,
		Location:     req.Location,
		AreaHectares: req.AreaHectares,
		CropType:     req.CropType,
	})
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, farm)
}

func (h *FarmHandler) DeleteFarm(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	if err := h.farmService.DeleteFarm(farmID, ownerID); err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *FarmHandler) AddImage(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	var req FarmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	image, err := h.farmService.AddImage(farmID, ownerID, req.URL, req.CapturedAt)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *FarmHandler) ListImages(c *gin.Context) {
	ownerID, farmID, ok := farmRequestIDs(c)
	if !ok {
		return
	}

	images, err := h.farmService.ListImages(farmID, ownerID)
	if err != nil {
		handleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": images})
}

// farmRequestIDs extracts the authenticated account and the :id route param.
// On failure it writes the error response and returns ok=false.
func farmRequestIDs(c *gin.Context) (ownerID, farmID uint, ok bool) {
	ownerID, exists := middleware.AccountID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, 0, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid farm id", "error_type": "validation_error"})
		return 0, 0, false
	}
	return ownerID, uint(id), true
}

// handleAPIError maps service errors for the resource endpoints.
func handleAPIError(c *gin.Context, err error) {
	log.Printf("[Handler] API error: %v", err)

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "error_type": "validation_error", "details": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource conflict", "error_type": "conflict"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}
