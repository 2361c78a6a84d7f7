package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wellnest-app/wellnest-backend/internal/services"
)

type WellnessHandler struct {
	wellnessService services.WellnessService
}

func NewWellnessHandler(wellnessService services.WellnessService) *WellnessHandler {
	return &WellnessHandler{wellnessService: wellnessService}
}

func (wh *WellnessHandler) SubmitDay(c *gin.Context) {
	var req struct {
		Ratings []services.RatingInput `json:"ratings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	entry, err := wh.wellnessService.SubmitDay(c.Request.Context(), req.Ratings)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (wh *WellnessHandler) GetHistory(c *gin.Context) {
	history, err := wh.wellnessService.LoadHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
