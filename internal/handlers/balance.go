package handlers

import (
	"pixgate/internal/middleware"
	"pixgate/internal/services/balance"
	"pixgate/internal/services/fee"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// BalanceHandler exposes merchant and partner balance reads.
type BalanceHandler struct {
	service *balance.Service
}

func NewBalanceHandler(service *balance.Service) *BalanceHandler {
	return &BalanceHandler{service: service}
}

// GetMerchantBalance returns the authenticated merchant's position.
func (h *BalanceHandler) GetMerchantBalance(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	bal, err := h.service.MerchantBalance(c.Context(), claims.MerchantID)
	if err != nil {
		return response.ServerError(c, "failed to compute balance")
	}

	return c.JSON(fiber.Map{
		"approved":  fee.FromCents(bal.Approved),
		"pending":   fee.FromCents(bal.Pending),
		"cancelled": fee.FromCents(bal.Cancelled),
		"available": fee.FromCents(bal.Available),
	})
}

// GetPartnerBalance returns the authenticated partner's position.
func (h *BalanceHandler) GetPartnerBalance(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.PartnerID == 0 {
		return response.Unauthorized(c)
	}

	bal, err := h.service.PartnerBalance(c.Context(), claims.PartnerID)
	if err != nil {
		return response.ServerError(c, "failed to compute balance")
	}

	return c.JSON(fiber.Map{
		"totalEarned":        fee.FromCents(bal.TotalEarned),
		"totalWithdrawn":     fee.FromCents(bal.TotalWithdrawn),
		"pendingWithdrawals": fee.FromCents(bal.PendingWithdrawals),
		"available":          fee.FromCents(bal.Available),
	})
}
