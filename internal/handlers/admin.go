package handlers

import (
	"time"

	"pixgate/internal/repositories"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes operator tooling.
type AdminHandler struct {
	intents repositories.ChargeIntentRepository
}

func NewAdminHandler(intents repositories.ChargeIntentRepository) *AdminHandler {
	return &AdminHandler{intents: intents}
}

// ListPendingIntents lists charge intents still pending after a
// threshold. Each one marks a charge that may exist at the provider
// without local records and needs backfill.
func (h *AdminHandler) ListPendingIntents(c *fiber.Ctx) error {
	olderThan := time.Duration(c.QueryInt("older_than_seconds", 300)) * time.Second

	intents, err := h.intents.ListPending(c.Context(), olderThan)
	if err != nil {
		return response.ServerError(c, "failed to list pending intents")
	}
	return response.Success(c, "Pending charge intents", intents)
}
