package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wellnest-app/wellnest-backend/internal/services"
)

type SpaceHandler struct {
	spaceService services.SpaceService
}

func NewSpaceHandler(spaceService services.SpaceService) *SpaceHandler {
	return &SpaceHandler{spaceService: spaceService}
}

func (sh *SpaceHandler) CreateSpace(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	space, err := sh.spaceService.CreateSpace(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"space": space})
}

func (sh *SpaceHandler) ListSpaces(c *gin.Context) {
	spaces, err := sh.spaceService.ListSpaces(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"spaces": spaces})
}

func (sh *SpaceHandler) JoinSpace(c *gin.Context) {
	spaceID, err := uuid.Parse(c.Param("spaceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space id"})
		return
	}
	member, err := sh.spaceService.JoinSpace(c.Request.Context(), spaceID)
	if err != nil {
		if errors.Is(err, services.ErrSpaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

func (sh *SpaceHandler) LeaveSpace(c *gin.Context) {
	spaceID, err := uuid.Parse(c.Param("spaceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space id"})
		return
	}
	if err := sh.spaceService.LeaveSpace(c.Request.Context(), spaceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}

func (sh *SpaceHandler) PostMessage(c *gin.Context) {
	spaceID, err := uuid.Parse(c.Param("spaceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space id"})
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	message, err := sh.spaceService.PostMessage(c.Request.Context(), spaceID, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrNotSpaceMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (sh *SpaceHandler) ListMessages(c *gin.Context) {
	spaceID, err := uuid.Parse(c.Param("spaceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	messages, err := sh.spaceService.ListMessages(c.Request.Context(), spaceID, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrNotSpaceMember) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
