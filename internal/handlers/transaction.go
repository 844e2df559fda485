package handlers

import (
	"errors"

	"pixgate/internal/middleware"
	"pixgate/internal/repositories"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// TransactionHandler exposes merchant transaction reads.
type TransactionHandler struct {
	transactions repositories.TransactionRepository
}

func NewTransactionHandler(transactions repositories.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// List returns the merchant's transactions, newest first.
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	txs, err := h.transactions.ListByMerchant(c.Context(), claims.MerchantID,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return response.ServerError(c, "failed to list transactions")
	}
	return response.Success(c, "Transactions retrieved", txs)
}

// Get returns one transaction owned by the merchant.
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "invalid transaction id")
	}

	tx, err := h.transactions.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return response.NotFound(c, "transaction not found")
		}
		return response.ServerError(c, "failed to load transaction")
	}
	if tx.MerchantID != claims.MerchantID {
		return response.NotFound(c, "transaction not found")
	}
	return c.JSON(tx)
}
