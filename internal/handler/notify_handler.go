package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pulseboard/internal/domain/user"
	"pulseboard/internal/notify"
	"pulseboard/internal/services"
	"pulseboard/internal/transport/httpdto"
)

// NotifyHandler exposes the connection registry over HTTP. Targeted sends
// are allowed for the target itself or an admin; the rest is admin-only.
type NotifyHandler struct {
	registry *notify.Registry
}

func NewNotifyHandler(registry *notify.Registry) *NotifyHandler {
	return &NotifyHandler{registry: registry}
}

// SendToUser delivers a payload to a single identity. A disconnected
// target is not an error: the response carries sent=false.
func (h *NotifyHandler) SendToUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}

	if !h.isSelfOrAdmin(c, targetID) {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		return
	}

	var req httpdto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	sent := h.registry.SendToIdentity(targetID.String(), notify.Payload{
		Kind:     notify.Kind(req.Kind),
		Message:  req.Message,
		Identity: targetID.String(),
		Data:     req.Data,
	})

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SendNotificationResponse{Sent: sent}))
}

// Broadcast fans a payload out to every connected identity, optionally
// excluding one via the exclude query param.
func (h *NotifyHandler) Broadcast(c *gin.Context) {
	var req httpdto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	delivered := h.registry.Broadcast(notify.Payload{
		Kind:    notify.Kind(req.Kind),
		Message: req.Message,
		Data:    req.Data,
	}, c.Query("exclude"))

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.BroadcastResponse{Delivered: delivered}))
}

func (h *NotifyHandler) ListConnections(c *gin.Context) {
	identities := h.registry.ListConnectedIdentities()
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ConnectionsResponse{
		Identities: identities,
		Count:      h.registry.ConnectionCount(),
	}))
}

func (h *NotifyHandler) ConnectionStatus(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid user id", "INVALID_REQUEST"))
		return
	}

	if !h.isSelfOrAdmin(c, targetID) {
		c.JSON(http.StatusForbidden, httpdto.NewErrorResponse("forbidden", "FORBIDDEN"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ConnectionStatusResponse{
		Identity:  targetID.String(),
		Connected: h.registry.IsConnected(targetID.String()),
	}))
}

func (h *NotifyHandler) isSelfOrAdmin(c *gin.Context, targetID uuid.UUID) bool {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		return false
	}
	if userID == targetID {
		return true
	}
	role, _ := services.RoleFromContext(c.Request.Context())
	return role == user.RoleAdmin
}
