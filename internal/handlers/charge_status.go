package handlers

import (
	"errors"

	"pixgate/internal/repositories"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ChargeStatusHandler answers public charge-status polls by correlation
// id. Checkout pages poll this while waiting for the payment to settle.
type ChargeStatusHandler struct {
	charges      repositories.PixChargeRepository
	transactions repositories.TransactionRepository
	partners     repositories.PartnerRepository
}

func NewChargeStatusHandler(
	charges repositories.PixChargeRepository,
	transactions repositories.TransactionRepository,
	partners repositories.PartnerRepository,
) *ChargeStatusHandler {
	return &ChargeStatusHandler{charges: charges, transactions: transactions, partners: partners}
}

// Get resolves the correlation id in the merchant namespace first, then
// the partner namespace, mirroring reconciliation order.
func (h *ChargeStatusHandler) Get(c *fiber.Ctx) error {
	correlationID := c.Params("correlationId")
	if correlationID == "" {
		return response.BadRequest(c, "correlation id is required")
	}

	pc, err := h.charges.GetByCorrelationID(c.Context(), correlationID)
	if err == nil {
		tx, err := h.transactions.GetByID(c.Context(), pc.TransactionID)
		if err != nil {
			return response.ServerError(c, "failed to load charge")
		}
		return c.JSON(fiber.Map{
			"correlationId": correlationID,
			"status":        tx.Status,
			"paidAt":        tx.PaidAt,
			"expiresAt":     pc.ExpiresAt,
		})
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return response.ServerError(c, "failed to load charge")
	}

	pt, err := h.partners.GetTransactionByCorrelationID(c.Context(), correlationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.NotFound(c, "charge not found")
		}
		return response.ServerError(c, "failed to load charge")
	}
	return c.JSON(fiber.Map{
		"correlationId": correlationID,
		"status":        pt.Status,
		"paidAt":        pt.PaidAt,
	})
}
