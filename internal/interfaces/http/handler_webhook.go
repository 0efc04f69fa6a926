package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"pouchon_bot/internal/entities"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errInvalidJSON = errors.New("invalid JSON body")

// HandlePaystackWebhook logs the event payload and acknowledges it with an empty 200.
// The caller is not authenticated and the payload is not acted on.
func (h *Handler) HandlePaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	payload, err := DecodePayload(body)
	if err != nil {
		h.logger.Warn("paystack webhook body is not valid JSON",
			zap.Int("payload_size", len(body)))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := []zap.Field{
		zap.Any("payload", payload),
		zap.Int("payload_size", len(body)),
	}
	if evt, ok := ParseEvent(payload); ok {
		fields = append(fields,
			zap.String("event", evt.Event),
			zap.String("reference", evt.Reference),
			zap.String("status", evt.Status),
			zap.Float64("amount", evt.Amount),
			zap.String("currency", evt.Currency))
	}
	h.logger.Info("received paystack webhook", fields...)

	c.Status(http.StatusOK)
}

// DecodePayload parses an arbitrary JSON body. An empty body decodes to an empty
// object. Numbers are kept as json.Number so amounts are logged unchanged.
func DecodePayload(body []byte) (any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]any{}, nil
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, errInvalidJSON
	}
	return payload, nil
}

// ParseEvent picks the Paystack envelope fields out of a decoded payload.
// It reports false when the payload has no string "event" key.
func ParseEvent(payload any) (entities.WebhookEvent, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return entities.WebhookEvent{}, false
	}
	name, ok := obj["event"].(string)
	if !ok {
		return entities.WebhookEvent{}, false
	}

	evt := entities.WebhookEvent{Event: name}
	data, _ := obj["data"].(map[string]any)
	evt.Reference, _ = data["reference"].(string)
	evt.Status, _ = data["status"].(string)
	evt.Currency, _ = data["currency"].(string)
	if n, ok := data["amount"].(json.Number); ok {
		evt.Amount, _ = n.Float64()
	}
	return evt, true
}
