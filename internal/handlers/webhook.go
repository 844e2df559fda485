package handlers

import (
	"errors"

	"pixgate/internal/provider"
	"pixgate/internal/services/reconcile"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler receives asynchronous provider notifications. The
// route accepts any method: providers probe endpoints with GET and
// empty-body requests during registration, and those must be
// acknowledged with 200 or registration fails.
type WebhookHandler struct {
	reconciler *reconcile.Service
	logger     *zap.Logger
}

func NewWebhookHandler(reconciler *reconcile.Service, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{reconciler: reconciler, logger: logger}
}

// Handle processes one provider notification.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	var payload provider.WebhookPayload
	if err := c.BodyParser(&payload); err != nil || payload.Event == "" {
		// Probe or malformed body: acknowledge so the provider does not
		// disable the endpoint.
		return c.JSON(fiber.Map{"status": "ok"})
	}

	outcome, err := h.reconciler.HandleEvent(c.Context(), &payload)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{
			"status":        "processed",
			"namespace":     outcome.Namespace,
			"correlationId": outcome.CorrelationID,
			"changed":       outcome.Changed,
		})
	case errors.Is(err, reconcile.ErrUnknownEvent):
		// Unhandled event types are acknowledged, never retried.
		return c.JSON(fiber.Map{"status": "ignored", "event": payload.Event})
	case errors.Is(err, reconcile.ErrMissingCorrelationID):
		return response.BadRequest(c, "missing correlation id")
	case errors.Is(err, reconcile.ErrNotFound):
		return response.NotFound(c, "unknown correlation id")
	default:
		h.logger.Error("webhook reconciliation failed",
			zap.String("event", payload.Event), zap.Error(err))
		return response.ServerError(c, "failed to process webhook")
	}
}
