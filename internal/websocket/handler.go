package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pulseboard/internal/notify"
	"pulseboard/internal/services"
	pulseboard_errors "pulseboard/pkg/errors"
)

// Handler upgrades authenticated HTTP requests into registry-managed
// notification channels.
type Handler struct {
	auth     *services.AuthService
	registry *notify.Registry
	log      *zap.Logger
}

func NewHandler(auth *services.AuthService, registry *notify.Registry, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: auth, registry: registry, log: log}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Connect handles GET /v1/ws. The token comes from the token query param
// or the Authorization header. Requests that fail authentication are
// still upgraded so the client receives a policy-violation close frame
// instead of a bare HTTP error.
func (h *Handler) Connect(c *gin.Context) {
	token := extractToken(c)

	claims, authErr := h.parseToken(token)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	ch := notify.NewWSChannel(conn)

	if authErr != nil {
		h.log.Warn("websocket auth rejected", zap.Error(authErr))
		_ = ch.Close(notify.ClosePolicyViolation, "authentication required")
		return
	}

	h.registry.Register(claims.UserID, ch)
	ch.ReadLoop()
}

func (h *Handler) parseToken(token string) (services.AccessClaims, error) {
	if token == "" {
		return services.AccessClaims{}, pulseboard_errors.ErrUnauthorized
	}
	return h.auth.ParseAccessToken(token)
}

func extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
