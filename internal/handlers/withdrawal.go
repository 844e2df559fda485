package handlers

import (
	"errors"

	"pixgate/internal/middleware"
	"pixgate/internal/services/balance"
	"pixgate/internal/services/withdrawal"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// WithdrawalHandler exposes merchant and partner payout flows.
type WithdrawalHandler struct {
	service *withdrawal.Service
}

func NewWithdrawalHandler(service *withdrawal.Service) *WithdrawalHandler {
	return &WithdrawalHandler{service: service}
}

// CreateMerchantWithdrawal pays out the authenticated merchant.
func (h *WithdrawalHandler) CreateMerchantWithdrawal(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	var input withdrawal.RequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.service.WithdrawMerchant(c.Context(), claims.MerchantID, input)
	return h.respond(c, result, err)
}

// CreatePartnerWithdrawal pays out the authenticated partner.
func (h *WithdrawalHandler) CreatePartnerWithdrawal(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.PartnerID == 0 {
		return response.Unauthorized(c)
	}

	var input withdrawal.RequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	result, err := h.service.WithdrawPartner(c.Context(), claims.PartnerID, input)
	return h.respond(c, result, err)
}

// ListMerchantWithdrawals lists the merchant's own payouts.
func (h *WithdrawalHandler) ListMerchantWithdrawals(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	ws, err := h.service.ListMerchant(c.Context(), claims.MerchantID,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return response.ServerError(c, "failed to list withdrawals")
	}
	return response.Success(c, "Withdrawals retrieved", ws)
}

// ListPartnerWithdrawals lists the partner's payouts.
func (h *WithdrawalHandler) ListPartnerWithdrawals(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.PartnerID == 0 {
		return response.Unauthorized(c)
	}

	ws, err := h.service.ListPartner(c.Context(), claims.PartnerID,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return response.ServerError(c, "failed to list withdrawals")
	}
	return response.Success(c, "Withdrawals retrieved", ws)
}

func (h *WithdrawalHandler) respond(c *fiber.Ctx, result *withdrawal.Result, err error) error {
	switch {
	case err == nil:
		return response.Created(c, result)
	case errors.Is(err, withdrawal.ErrInvalidAmount):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, balance.ErrInsufficientBalance):
		return response.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, withdrawal.ErrNoSubaccount):
		return response.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, withdrawal.ErrMerchantNotFound), errors.Is(err, withdrawal.ErrPartnerNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, withdrawal.ErrProvider):
		// The failed row is retained; return it so the caller sees the
		// terminal state.
		return c.Status(fiber.StatusBadGateway).JSON(result)
	default:
		return response.ServerError(c, "failed to process withdrawal")
	}
}
