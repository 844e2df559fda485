package handlers

import (
	"errors"

	"pixgate/internal/provider"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// SubaccountHandler is a typed gateway over the provider's subaccount
// API. Requests and responses are structured; nothing is proxied raw.
type SubaccountHandler struct {
	client *provider.Client
}

func NewSubaccountHandler(client *provider.Client) *SubaccountHandler {
	return &SubaccountHandler{client: client}
}

func (h *SubaccountHandler) Create(c *fiber.Ctx) error {
	var input struct {
		Name   string `json:"name"`
		PixKey string `json:"pixKey"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.PixKey == "" {
		return response.BadRequest(c, "pixKey is required")
	}

	sub, err := h.client.CreateSubaccount(c.Context(), input.Name, input.PixKey)
	if err != nil {
		return h.providerError(c, err)
	}
	return response.Created(c, sub)
}

func (h *SubaccountHandler) Get(c *fiber.Ctx) error {
	sub, err := h.client.GetSubaccount(c.Context(), c.Params("id"))
	if err != nil {
		return h.providerError(c, err)
	}
	return c.JSON(sub)
}

func (h *SubaccountHandler) List(c *fiber.Ctx) error {
	subs, err := h.client.ListSubaccounts(c.Context(), c.QueryInt("skip", 0), c.QueryInt("limit", 50))
	if err != nil {
		return h.providerError(c, err)
	}
	return c.JSON(fiber.Map{"subAccounts": subs})
}

func (h *SubaccountHandler) Delete(c *fiber.Ctx) error {
	if err := h.client.DeleteSubaccount(c.Context(), c.Params("id")); err != nil {
		return h.providerError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SubaccountHandler) Withdraw(c *fiber.Ctx) error {
	var input struct {
		Value int64 `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil || input.Value <= 0 {
		return response.BadRequest(c, "value must be greater than zero")
	}

	transfer, err := h.client.Withdraw(c.Context(), c.Params("id"), input.Value)
	if err != nil {
		return h.providerError(c, err)
	}
	return c.JSON(transfer)
}

func (h *SubaccountHandler) Debit(c *fiber.Ctx) error {
	var input struct {
		Value int64 `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil || input.Value <= 0 {
		return response.BadRequest(c, "value must be greater than zero")
	}

	if err := h.client.Debit(c.Context(), c.Params("id"), input.Value); err != nil {
		return h.providerError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *SubaccountHandler) Transfer(c *fiber.Ctx) error {
	var input struct {
		From  string `json:"from"`
		To    string `json:"to"`
		Value int64  `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.From == "" || input.To == "" || input.Value <= 0 {
		return response.BadRequest(c, "from, to and a positive value are required")
	}

	if err := h.client.Transfer(c.Context(), input.From, input.To, input.Value); err != nil {
		return h.providerError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// providerError surfaces the provider's own status and body verbatim so
// operators can debug against upstream documentation.
func (h *SubaccountHandler) providerError(c *fiber.Ctx, err error) error {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.StatusCode).SendString(apiErr.Body)
	}
	return response.Error(c, fiber.StatusBadGateway, "provider request failed")
}
