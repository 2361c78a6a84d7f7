package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wellnest-app/wellnest-backend/internal/services"
)

type BabyStepsHandler struct {
	babyStepsService services.BabyStepsService
}

func NewBabyStepsHandler(babyStepsService services.BabyStepsService) *BabyStepsHandler {
	return &BabyStepsHandler{babyStepsService: babyStepsService}
}

func (bh *BabyStepsHandler) GetLedger(c *gin.Context) {
	groups, err := bh.babyStepsService.Ledger(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"baby_steps": groups})
}

func (bh *BabyStepsHandler) GetActive(c *gin.Context) {
	groups, err := bh.babyStepsService.ActiveSteps(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"baby_steps": groups})
}

func (bh *BabyStepsHandler) ToggleCompletion(c *gin.Context) {
	metricID := c.Param("metricId")
	var req struct {
		Completed bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	result, err := bh.babyStepsService.ToggleCompletion(c.Request.Context(), metricID, req.Completed)
	if err != nil {
		if errors.Is(err, services.ErrStepNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": result.Rating, "stars": result.Stars})
}

func (bh *BabyStepsHandler) UpdateText(c *gin.Context) {
	metricID := c.Param("metricId")
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	rating, err := bh.babyStepsService.UpdateBabyStepText(c.Request.Context(), metricID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrStepNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}
