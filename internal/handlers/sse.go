package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wellnest-app/wellnest-backend/internal/repos"
	"github.com/wellnest-app/wellnest-backend/internal/requestdata"
	"github.com/wellnest-app/wellnest-backend/internal/sse"
)

type SSEHandler struct {
	hub        *sse.SSEHub
	memberRepo repos.SpaceMemberRepo
}

func NewSSEHandler(hub *sse.SSEHub, memberRepo repos.SpaceMemberRepo) *SSEHandler {
	return &SSEHandler{hub: hub, memberRepo: memberRepo}
}

// Stream opens the event stream. Every client is subscribed to its own user
// channel up front; space channels are added through Subscribe.
func (sh *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	client := sh.hub.NewSSEClient(rd.UserID)
	defer sh.hub.CloseClient(client)

	sh.hub.AddChannel(client, sse.UserChannel(rd.UserID))

	client.Outbound <- sse.SSEMessage{
		Channel: sse.UserChannel(rd.UserID),
		Event:   "Connected",
		Data:    gin.H{"client_id": client.ID},
	}

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}

func (sh *SSEHandler) Subscribe(c *gin.Context) {
	client, channel, ok := sh.resolve(c)
	if !ok {
		return
	}
	sh.hub.AddChannel(client, channel)
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}

func (sh *SSEHandler) Unsubscribe(c *gin.Context) {
	client, channel, ok := sh.resolve(c)
	if !ok {
		return
	}
	sh.hub.RemoveChannel(client, channel)
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}

// resolve validates the client_id/channel pair shared by Subscribe and
// Unsubscribe. Space channels require a live membership; user channels are
// restricted to the caller's own.
func (sh *SSEHandler) resolve(c *gin.Context) (*sse.SSEClient, string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, "", false
	}

	var req struct {
		ClientID string `json:"client_id"`
		Channel  string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, "", false
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return nil, "", false
	}
	client := sh.hub.GetClient(clientID)
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not connected"})
		return nil, "", false
	}
	if client.UserID != rd.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "client does not belong to caller"})
		return nil, "", false
	}

	channel := strings.TrimSpace(req.Channel)
	switch {
	case strings.HasPrefix(channel, "space:"):
		spaceID, err := uuid.Parse(strings.TrimPrefix(channel, "space:"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space channel"})
			return nil, "", false
		}
		member, err := sh.memberRepo.Get(c.Request.Context(), nil, spaceID, rd.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to check membership"})
			return nil, "", false
		}
		if member == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this space"})
			return nil, "", false
		}
	case strings.HasPrefix(channel, "user:"):
		if channel != sse.UserChannel(rd.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot subscribe to another user's channel"})
			return nil, "", false
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown channel"})
		return nil, "", false
	}

	return client, channel, true
}
