package handlers

import (
	"net/url"

	"pixgate/internal/middleware"
	"pixgate/internal/models"
	"pixgate/internal/repositories"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WebhookEndpointHandler manages merchant callback targets for the
// payment-event fan-out.
type WebhookEndpointHandler struct {
	endpoints repositories.WebhookEndpointRepository
}

func NewWebhookEndpointHandler(endpoints repositories.WebhookEndpointRepository) *WebhookEndpointHandler {
	return &WebhookEndpointHandler{endpoints: endpoints}
}

// Create registers a callback URL with its event subscriptions.
func (h *WebhookEndpointHandler) Create(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	var input struct {
		URL    string   `json:"url"`
		Events []string `json:"events"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	parsed, err := url.Parse(input.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return response.BadRequest(c, "url must be a valid http(s) address")
	}
	if len(input.Events) == 0 {
		return response.BadRequest(c, "at least one event subscription is required")
	}

	ep := &models.WebhookEndpoint{
		MerchantID: claims.MerchantID,
		URL:        input.URL,
		Events:     models.StringList(input.Events),
		Status:     models.WebhookStatusActive,
	}
	if err := h.endpoints.Create(c.Context(), ep); err != nil {
		return response.ServerError(c, "failed to register webhook endpoint")
	}
	return response.Created(c, ep)
}

// List returns the merchant's active callback targets.
func (h *WebhookEndpointHandler) List(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	eps, err := h.endpoints.ListActiveByMerchant(c.Context(), claims.MerchantID)
	if err != nil {
		return response.ServerError(c, "failed to list webhook endpoints")
	}
	return response.Success(c, "Webhook endpoints retrieved", eps)
}

// Deactivate stops deliveries to an endpoint. The row is kept.
func (h *WebhookEndpointHandler) Deactivate(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid endpoint id")
	}

	if err := h.endpoints.Deactivate(c.Context(), uint(id), claims.MerchantID); err != nil {
		return response.ServerError(c, "failed to deactivate webhook endpoint")
	}
	return response.Success(c, "Webhook endpoint deactivated", nil)
}
