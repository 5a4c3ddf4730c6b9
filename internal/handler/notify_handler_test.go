package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/internal/domain/user"
	"pulseboard/internal/notify"
	"pulseboard/internal/services"
)

type stubChannel struct {
	mu    sync.Mutex
	sent  [][]byte
	state notify.ChannelState
}

func newStubChannel() *stubChannel {
	return &stubChannel{state: notify.StateOpen}
}

func (c *stubChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, data)
	return nil
}

func (c *stubChannel) Close(code int, reason string) error { return nil }
func (c *stubChannel) State() notify.ChannelState          { return c.state }
func (c *stubChannel) OnTerminate(fn func())               {}

func notifyRouter(registry *notify.Registry, callerID uuid.UUID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := services.WithUserSessionContext(c.Request.Context(), callerID, uuid.New(), role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	h := NewNotifyHandler(registry)
	r.POST("/v1/notify/users/:id", h.SendToUser)
	r.POST("/v1/notify/broadcast", h.Broadcast)
	r.GET("/v1/notify/connections", h.ListConnections)
	r.GET("/v1/notify/users/:id/status", h.ConnectionStatus)
	return r
}

func TestSendToConnectedUser(t *testing.T) {
	registry := notify.NewRegistry(nil)
	target := uuid.New()
	ch := newStubChannel()
	registry.Register(target.String(), ch)

	admin := uuid.New()
	router := notifyRouter(registry, admin, user.RoleAdmin)

	body, _ := json.Marshal(map[string]any{"kind": "system", "message": "maintenance at noon"})
	req := httptest.NewRequest(http.MethodPost, "/v1/notify/users/"+target.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":true`)

	ch.mu.Lock()
	defer ch.mu.Unlock()
	// welcome frame plus the targeted send
	require.Len(t, ch.sent, 2)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(ch.sent[1], &frame))
	assert.Equal(t, "maintenance at noon", frame["message"])
	assert.NotEmpty(t, frame["delivered_at"])
}

func TestSendToDisconnectedUserIsNotAnError(t *testing.T) {
	registry := notify.NewRegistry(nil)
	admin := uuid.New()
	router := notifyRouter(registry, admin, user.RoleAdmin)

	body, _ := json.Marshal(map[string]any{"kind": "system", "message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/v1/notify/users/"+uuid.NewString(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":false`)
}

func TestSendToOtherUserForbiddenForNonAdmin(t *testing.T) {
	registry := notify.NewRegistry(nil)
	caller := uuid.New()
	router := notifyRouter(registry, caller, user.RoleUser)

	body, _ := json.Marshal(map[string]any{"kind": "system", "message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/v1/notify/users/"+uuid.NewString(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBroadcastReportsDeliveredCount(t *testing.T) {
	registry := notify.NewRegistry(nil)
	registry.Register(uuid.NewString(), newStubChannel())
	registry.Register(uuid.NewString(), newStubChannel())

	admin := uuid.New()
	router := notifyRouter(registry, admin, user.RoleAdmin)

	body, _ := json.Marshal(map[string]any{"kind": "system", "message": "fanout"})
	req := httptest.NewRequest(http.MethodPost, "/v1/notify/broadcast", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"delivered":2`)
}

func TestListConnections(t *testing.T) {
	registry := notify.NewRegistry(nil)
	id := uuid.NewString()
	registry.Register(id, newStubChannel())

	admin := uuid.New()
	router := notifyRouter(registry, admin, user.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/v1/notify/connections", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestConnectionStatus(t *testing.T) {
	registry := notify.NewRegistry(nil)
	target := uuid.New()
	registry.Register(target.String(), newStubChannel())

	router := notifyRouter(registry, target, user.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/v1/notify/users/"+target.String()+"/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"connected":true`)
}
