package withdrawal

import "errors"

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrPartnerNotFound  = errors.New("partner not found")
	ErrNoSubaccount     = errors.New("no provider subaccount registered")
	ErrProvider         = errors.New("provider withdrawal failed")
)
