package handlers

import (
	"errors"

	"pixgate/internal/middleware"
	"pixgate/internal/services/partner"
	"pixgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// PartnerHandler manages split partners and their product catalogs.
type PartnerHandler struct {
	service *partner.Service
}

func NewPartnerHandler(service *partner.Service) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// CreatePartner registers a split destination for the merchant.
func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	var input partner.CreatePartnerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	p, err := h.service.Create(c.Context(), claims.MerchantID, input)
	if err != nil {
		if errors.Is(err, partner.ErrInvalidSplit) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServerError(c, "failed to create partner")
	}
	return response.Created(c, p)
}

// ListPartners lists the merchant's split partners.
func (h *PartnerHandler) ListPartners(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}

	partners, err := h.service.List(c.Context(), claims.MerchantID)
	if err != nil {
		return response.ServerError(c, "failed to list partners")
	}
	return response.Success(c, "Partners retrieved", partners)
}

// GetPartner returns one partner owned by the merchant.
func (h *PartnerHandler) GetPartner(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.MerchantID == 0 {
		return response.Unauthorized(c)
	}
	partnerID, err := c.ParamsInt("partnerId")
	if err != nil || partnerID <= 0 {
		return response.BadRequest(c, "invalid partner id")
	}

	p, err := h.service.Get(c.Context(), claims.MerchantID, uint(partnerID))
	if err != nil {
		if errors.Is(err, partner.ErrPartnerNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.ServerError(c, "failed to load partner")
	}
	return c.JSON(p)
}

// LinkPartnerUser attaches the invited user's login to a partner
// profile, opening the commission earnings window.
func (h *PartnerHandler) LinkPartnerUser(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return response.Unauthorized(c)
	}
	partnerID, err := c.ParamsInt("partnerId")
	if err != nil || partnerID <= 0 {
		return response.BadRequest(c, "invalid partner id")
	}

	if err := h.service.LinkUser(c.Context(), uint(partnerID), claims.UserID); err != nil {
		if errors.Is(err, partner.ErrPartnerNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.ServerError(c, "failed to link partner")
	}
	return response.Success(c, "Partner linked", nil)
}

// CreateProduct adds a product to a partner's catalog.
func (h *PartnerHandler) CreateProduct(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.PartnerID == 0 {
		return response.Unauthorized(c)
	}

	var input partner.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	p, err := h.service.CreateProduct(c.Context(), claims.PartnerID, input)
	if err != nil {
		switch {
		case errors.Is(err, partner.ErrInvalidProduct):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, partner.ErrPartnerNotFound):
			return response.NotFound(c, err.Error())
		default:
			return response.ServerError(c, "failed to create product")
		}
	}
	return response.Created(c, p)
}

// ListProducts lists the authenticated partner's catalog.
func (h *PartnerHandler) ListProducts(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil || claims.PartnerID == 0 {
		return response.Unauthorized(c)
	}

	products, err := h.service.ListProducts(c.Context(), claims.PartnerID)
	if err != nil {
		return response.ServerError(c, "failed to list products")
	}
	return response.Success(c, "Products retrieved", products)
}
