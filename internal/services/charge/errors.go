package charge

import "errors"

var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrMerchantNotFound   = errors.New("merchant not found")
	ErrMerchantInactive   = errors.New("merchant is not active")
	ErrPartnerNotFound    = errors.New("partner not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidCredentials = errors.New("invalid merchant credentials")
	ErrProvider           = errors.New("provider charge creation failed")

	// ErrChargePersistedUpstream marks the partial-failure window: the
	// provider accepted the charge but a local write failed. The charge
	// remains valid upstream and must be surfaced, not swallowed.
	ErrChargePersistedUpstream = errors.New("charge created at provider but local persistence failed")
)
