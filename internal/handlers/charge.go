package handlers

import (
	"errors"

	"pixgate/internal/middleware"
	"pixgate/internal/services/charge"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ChargeHandler exposes the three charge creation variants.
type ChargeHandler struct {
	service *charge.Service
}

func NewChargeHandler(service *charge.Service) *ChargeHandler {
	return &ChargeHandler{service: service}
}

// CreateCharge creates a charge for the authenticated merchant.
func (h *ChargeHandler) CreateCharge(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	var input charge.CreateChargeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.service.CreateMerchantCharge(c.Context(), claims.MerchantID, input)
	return h.respond(c, result, err)
}

// CreatePublicCharge creates a charge authenticated by merchant id plus
// API key instead of a session.
func (h *ChargeHandler) CreatePublicCharge(c *fiber.Ctx) error {
	var input struct {
		charge.CreateChargeInput
		MerchantID uint `json:"merchantId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.MerchantID == 0 {
		return response.BadRequest(c, "merchantId is required")
	}
	apiKey := c.Get("X-API-Key")
	if apiKey == "" {
		return response.Unauthorized(c)
	}

	result, err := h.service.CreatePublicCharge(c.Context(), input.MerchantID, apiKey, input.CreateChargeInput)
	return h.respond(c, result, err)
}

// CreatePartnerProductCharge creates a charge for a partner-product
// sale. The endpoint is public: the buyer is not authenticated.
func (h *ChargeHandler) CreatePartnerProductCharge(c *fiber.Ctx) error {
	partnerID, err := c.ParamsInt("partnerId")
	if err != nil || partnerID <= 0 {
		return response.BadRequest(c, "invalid partner id")
	}
	productID, err := c.ParamsInt("productId")
	if err != nil || productID <= 0 {
		return response.BadRequest(c, "invalid product id")
	}

	var input charge.CreateChargeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.service.CreatePartnerProductCharge(c.Context(), uint(partnerID), uint(productID), input)
	return h.respond(c, result, err)
}

func (h *ChargeHandler) respond(c *fiber.Ctx, result *charge.Result, err error) error {
	switch {
	case err == nil:
		return response.Created(c, result)
	case errors.Is(err, charge.ErrChargePersistedUpstream):
		// The provider charge exists; return it with the warning so the
		// caller can still collect payment.
		return response.Created(c, result)
	case errors.Is(err, charge.ErrInvalidAmount):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, charge.ErrInvalidCredentials):
		return response.Unauthorized(c)
	case errors.Is(err, charge.ErrMerchantNotFound),
		errors.Is(err, charge.ErrPartnerNotFound),
		errors.Is(err, charge.ErrProductNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, charge.ErrMerchantInactive):
		return response.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, charge.ErrProvider):
		return response.Error(c, fiber.StatusBadGateway, "payment provider rejected the charge")
	default:
		return response.ServerError(c, "failed to create charge")
	}
}
