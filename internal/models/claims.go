package models

import "github.com/golang-jwt/jwt/v5"

// Roles carried by JWT claims.
const (
	RoleMerchant = "merchant"
	RolePartner  = "partner"
	RoleAdmin    = "admin"
)

// UserClaims are the JWT claims attached to authenticated requests.
// MerchantID is set for merchant sessions; PartnerID for invited partner
// sessions (their owning merchant id is resolved from the partner record).
type UserClaims struct {
	jwt.RegisteredClaims
	UserID     uint   `json:"user_id"`
	MerchantID uint   `json:"merchant_id,omitempty"`
	PartnerID  uint   `json:"partner_id,omitempty"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}
