package handlers

import (
	"errors"

	"pixgate/internal/middleware"
	"pixgate/internal/services/merchant"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// MerchantHandler manages merchant accounts and their fee parameters.
type MerchantHandler struct {
	service *merchant.Service
}

func NewMerchantHandler(service *merchant.Service) *MerchantHandler {
	return &MerchantHandler{service: service}
}

// Create onboards a merchant. The response carries the plaintext API
// key exactly once.
func (h *MerchantHandler) Create(c *fiber.Ctx) error {
	var input merchant.CreateInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	created, err := h.service.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, merchant.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, merchant.ErrEmailTaken):
			return response.Error(c, fiber.StatusConflict, err.Error())
		default:
			return response.ServerError(c, "failed to create merchant")
		}
	}
	return response.Created(c, created)
}

// UpdateFees replaces a merchant's fee configuration.
func (h *MerchantHandler) UpdateFees(c *fiber.Ctx) error {
	merchantID, err := c.ParamsInt("id")
	if err != nil || merchantID <= 0 {
		return response.BadRequest(c, "invalid merchant id")
	}

	var input merchant.FeeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	cfg, err := h.service.UpdateFees(c.Context(), uint(merchantID), input)
	if err != nil {
		if errors.Is(err, merchant.ErrInvalidFees) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "failed to update fees")
	}
	return response.Success(c, "Fee configuration updated", cfg)
}

// RotateAPIKey reissues the authenticated merchant's API key.
func (h *MerchantHandler) RotateAPIKey(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	key, err := h.service.RotateAPIKey(c.Context(), claims.MerchantID)
	if err != nil {
		if errors.Is(err, merchant.ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.ServerError(c, "failed to rotate api key")
	}
	return response.Success(c, "API key rotated", fiber.Map{"apiKey": key})
}
