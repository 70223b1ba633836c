package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/launchpad-demo/ai-gateway/internal/domain"
	"github.com/launchpad-demo/ai-gateway/internal/gateway"
)

// Handler exposes the gateway over HTTP: the completion endpoint plus the
// collaborator surface (flag reads, event tracking) the storefront UI
// consumes.
type Handler struct {
	engine *gateway.Engine
	holder *gateway.ClientHolder
	logger *zap.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(engine *gateway.Engine, holder *gateway.ClientHolder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{engine: engine, holder: holder, logger: logger}
}

// Completion handles POST /api/ai-config. Every outcome is HTTP 200 with
// a structured JSON body; failures carry a single error code, never a raw
// error message.
func (h *Handler) Completion(c *gin.Context) {
	var req gateway.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("malformed completion request", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"error": string(domain.CodeConfigError)})
		return
	}

	c.JSON(http.StatusOK, h.engine.Handle(c.Request.Context(), req))
}

// Flag handles GET /api/flags/:key. The default query parameter is parsed
// as JSON when possible and treated as a raw string otherwise; any
// evaluation failure degrades to that default.
func (h *Handler) Flag(c *gin.Context) {
	key := c.Param("key")
	defaultValue := parseDefault(c.Query("default"))

	value := defaultValue
	if clients, err := h.holder.Get(c.Request.Context()); err == nil && clients.Flags != nil {
		value = clients.Flags.FlagValue(key, domain.NewEvaluationContext(nil), defaultValue)
	} else if err != nil {
		h.logger.Debug("flag read fell back to default", zap.String("key", key), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// eventRequest is the body of POST /api/events.
type eventRequest struct {
	Name    string         `json:"name" binding:"required"`
	Payload map[string]any `json:"payload"`
	Value   *float64       `json:"value"`
	Context map[string]any `json:"context"`
}

// Event handles POST /api/events. Tracking is fire-and-forget: the event
// is accepted as long as the body is well formed.
func (h *Handler) Event(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if clients, err := h.holder.Get(c.Request.Context()); err == nil && clients.Flags != nil {
		clients.Flags.TrackEvent(req.Name, domain.NewEvaluationContext(req.Context), req.Payload, req.Value)
	} else if err != nil {
		h.logger.Debug("event dropped", zap.String("event", req.Name), zap.Error(err))
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseDefault reads the default query parameter: JSON when it decodes,
// raw string otherwise, nil when absent.
func parseDefault(raw string) any {
	if raw == "" {
		return nil
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return raw
	}
	return value
}
