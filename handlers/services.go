package handlers

import (
	"errors"
	"net/http"

	scheduleRepo "pharmabook/database/repository/schedule"
	serviceRepo "pharmabook/database/repository/service"
	"pharmabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler exposes the treatment catalog.
type CatalogHandler struct {
	Services  serviceRepo.ServiceRepository
	Schedules scheduleRepo.ScheduleRepository
}

// ListServicesHandler handles GET /api/services.
func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	logger := utils.GetLogger()

	svcs, err := h.Services.GetAll()
	if err != nil {
		logger.Error("Failed to list services", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": svcs})
}

// GetServiceHandler handles GET /api/services/:slug.
func (h *CatalogHandler) GetServiceHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")

	svc, err := h.Services.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		logger.Error("Failed to fetch service", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch service"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

// ListMedicinesHandler handles GET /api/services/:slug/medicines.
func (h *CatalogHandler) ListMedicinesHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")

	svc, err := h.Services.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		logger.Error("Failed to fetch service", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch service"})
		return
	}

	meds, err := h.Services.MedicinesByService(svc.ID)
	if err != nil {
		logger.Error("Failed to list medicines", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list medicines"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"medicines": meds})
}

// GetScheduleHandler handles GET /api/services/:slug/schedule.
func (h *CatalogHandler) GetScheduleHandler(c *gin.Context) {
	logger := utils.GetLogger()
	slug := c.Param("slug")

	sched, err := h.Schedules.GetByServiceSlug(slug)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		logger.Error("Failed to fetch schedule", zap.String("slug", slug), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch schedule"})
		return
	}
	c.JSON(http.StatusOK, sched)
}
