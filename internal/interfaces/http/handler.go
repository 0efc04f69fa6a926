package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxBodyBytes caps inbound request bodies, matching the usual JSON body parser default.
const MaxBodyBytes = 100 << 10

const PaystackWebhookPath = "/paystack/webhook"

type Handler struct {
	logger  *zap.Logger
	botName string
}

// NewHandler builds the HTTP handlers. botName is the connected bot's username,
// reported by the health probe; empty means no bot is connected.
func NewHandler(logger *zap.Logger, botName string) *Handler {
	return &Handler{
		logger:  logger,
		botName: botName,
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, logger *zap.Logger) {
	r.Use(Recovery(logger))
	r.Use(RequestLogger(logger))
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(MaxBodyBytes))

	r.GET("/health", h.Health)
	r.POST(PaystackWebhookPath, h.HandlePaystackWebhook)
}

// NewRouter returns a bare gin engine with the service routes registered.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	SetupRoutes(r, h, logger)
	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"bot_connected": h.botName != "",
		"bot_name":      h.botName,
	})
}
