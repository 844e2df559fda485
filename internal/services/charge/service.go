// Package charge orchestrates charge creation: fee and split
// computation, the provider call and local persistence. Three entry
// variants share one skeleton: authenticated merchant, public (explicit
// merchant id + API key) and partner-product.
package charge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixgate/internal/models"
	"pixgate/internal/provider"
	"pixgate/internal/repositories"
	"pixgate/internal/services/fee"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultExpiresIn = 3600

// Service is the charge orchestrator.
type Service struct {
	merchants     MerchantStore
	partners      PartnerStore
	transactions  TransactionStore
	charges       ChargeStore
	intents       IntentStore
	gateway       ProviderGateway
	defaultExpiry int
	logger        *zap.Logger
}

// NewService creates a charge service. defaultExpiry is the charge
// lifetime in seconds applied when the request does not set one.
func NewService(
	merchants MerchantStore,
	partners PartnerStore,
	transactions TransactionStore,
	charges ChargeStore,
	intents IntentStore,
	gateway ProviderGateway,
	defaultExpiry int,
	logger *zap.Logger,
) *Service {
	if merchants == nil || partners == nil || transactions == nil || charges == nil || intents == nil || gateway == nil {
		panic("all charge service dependencies are required")
	}
	if defaultExpiry <= 0 {
		defaultExpiry = defaultExpiresIn
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		merchants:     merchants,
		partners:      partners,
		transactions:  transactions,
		charges:       charges,
		intents:       intents,
		gateway:       gateway,
		defaultExpiry: defaultExpiry,
		logger:        logger,
	}
}

// CreateMerchantCharge creates a charge for an authenticated merchant.
// This variant drops split lines whose value reaches the charge total.
func (s *Service) CreateMerchantCharge(ctx context.Context, merchantID uint, in CreateChargeInput) (*Result, error) {
	return s.createMerchantCharge(ctx, merchantID, in, fee.Options{DropAtOrAboveTotal: true})
}

// CreatePublicCharge creates a charge on behalf of a merchant identified
// explicitly by id and API key. Ownerless public charges are not
// supported: guessing a merchant is non-deterministic once more than one
// exists. This variant keeps split lines that reach the charge total.
func (s *Service) CreatePublicCharge(ctx context.Context, merchantID uint, apiKey string, in CreateChargeInput) (*Result, error) {
	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return nil, notFound(err, ErrMerchantNotFound)
	}
	if merchant.APIKeyHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(merchant.APIKeyHash), []byte(apiKey)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.createMerchantCharge(ctx, merchantID, in, fee.Options{})
}

func (s *Service) createMerchantCharge(ctx context.Context, merchantID uint, in CreateChargeInput, opts fee.Options) (*Result, error) {
	amountCents := fee.ToCents(in.Amount)
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		return nil, notFound(err, ErrMerchantNotFound)
	}
	if merchant.Status != models.MerchantStatusActive {
		return nil, ErrMerchantInactive
	}

	feeCfg, err := s.merchants.GetFeeConfig(ctx, merchant.ID)
	if err != nil {
		return nil, fmt.Errorf("load fee config: %w", err)
	}
	feeCents := fee.Fee(amountCents, feeCfg.PixInPercentage, feeCfg.PixInFixed)
	netCents := amountCents - feeCents

	var splits []fee.Split
	if feeCfg.SplitEnabled {
		partners, err := s.partners.GetActiveByMerchant(ctx, merchant.ID)
		if err != nil {
			return nil, fmt.Errorf("load split partners: %w", err)
		}
		splits = fee.Splits(partners, amountCents, opts)
	}

	orderID := in.OrderID
	if orderID == "" {
		orderID = fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}

	correlationID := newCorrelationID()
	intent := &models.ChargeIntent{
		CorrelationID: correlationID,
		MerchantID:    merchant.ID,
		Amount:        amountCents,
		Status:        models.IntentStatusPending,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("record charge intent: %w", err)
	}

	created, err := s.callProvider(ctx, correlationID, amountCents, orderID, in, splits)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		MerchantID:    merchant.ID,
		OrderID:       orderID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		CustomerTaxID: in.CustomerTaxID,
		Amount:        amountCents,
		Fee:           feeCents,
		NetAmount:     netCents,
		Status:        models.StatusPending,
		PixCode:       created.BRCode,
		QRCodeImage:   created.QRCodeImage,
	}

	result := &Result{
		Success:        true,
		OrderID:        orderID,
		CorrelationID:  correlationID,
		Amount:         fee.FromCents(amountCents),
		Fee:            fee.FromCents(feeCents),
		NetAmount:      fee.FromCents(netCents),
		PixCode:        created.BRCode,
		QRCodeImage:    created.QRCodeImage,
		ExpiresAt:      created.ExpiresAt,
		PaymentLinkURL: created.PaymentLinkURL,
		SplitCount:     len(splits),
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		// The charge exists upstream; the pending intent keeps it
		// discoverable for backfill.
		s.logger.Error("transaction write failed after provider success",
			zap.String("correlation_id", correlationID),
			zap.Uint("merchant_id", merchant.ID),
			zap.Error(err))
		result.Warning = "charge created upstream; local record incomplete"
		return result, fmt.Errorf("%w: %v", ErrChargePersistedUpstream, err)
	}
	result.TransactionID = tx.ID

	pixCharge := &models.PixCharge{
		MerchantID:       merchant.ID,
		TransactionID:    tx.ID,
		ProviderChargeID: created.ChargeID,
		CorrelationID:    correlationID,
		Amount:           amountCents,
		Status:           created.Status,
		PixCode:          created.BRCode,
		QRCodeImage:      created.QRCodeImage,
		ExpiresAt:        created.ExpiresAt,
	}
	if err := s.charges.Create(ctx, pixCharge); err != nil {
		// The transaction row is kept: the charge is still valid and
		// becomes reconcilable once the correlation record is
		// backfilled from the pending intent.
		s.logger.Error("correlation record write failed after provider success",
			zap.String("correlation_id", correlationID),
			zap.Uint("transaction_id", tx.ID),
			zap.Error(err))
		result.Warning = "charge created upstream; correlation record incomplete"
		return result, fmt.Errorf("%w: %v", ErrChargePersistedUpstream, err)
	}

	if err := s.intents.MarkFulfilled(ctx, correlationID); err != nil {
		s.logger.Warn("failed to mark charge intent fulfilled",
			zap.String("correlation_id", correlationID), zap.Error(err))
	}
	return result, nil
}

// CreatePartnerProductCharge creates a charge for a partner-product
// sale. The sale lives in the partner transaction namespace; the fee
// configuration comes from the partner's owning merchant.
func (s *Service) CreatePartnerProductCharge(ctx context.Context, partnerID, productID uint, in CreateChargeInput) (*Result, error) {
	partner, err := s.partners.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, notFound(err, ErrPartnerNotFound)
	}
	product, err := s.partners.GetProduct(ctx, partner.ID, productID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	amountCents := fee.ToCents(in.Amount)
	if amountCents <= 0 {
		amountCents = product.Price
	}
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	feeCfg, err := s.merchants.GetFeeConfig(ctx, partner.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("load fee config: %w", err)
	}
	feeCents := fee.Fee(amountCents, feeCfg.PixInPercentage, feeCfg.PixInFixed)
	netCents := amountCents - feeCents

	orderID := in.OrderID
	if orderID == "" {
		orderID = fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}

	correlationID := newCorrelationID()
	intent := &models.ChargeIntent{
		CorrelationID: correlationID,
		MerchantID:    partner.MerchantID,
		PartnerID:     &partner.ID,
		Amount:        amountCents,
		Status:        models.IntentStatusPending,
	}
	if err := s.intents.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("record charge intent: %w", err)
	}

	created, err := s.callProvider(ctx, correlationID, amountCents, product.Name, in, nil)
	if err != nil {
		return nil, err
	}

	pt := &models.PartnerTransaction{
		PartnerID:        partner.ID,
		ProductID:        product.ID,
		OrderID:          orderID,
		Amount:           amountCents,
		Fee:              feeCents,
		NetAmount:        netCents,
		CustomerName:     in.CustomerName,
		CustomerEmail:    in.CustomerEmail,
		CustomerPhone:    in.CustomerPhone,
		CustomerTaxID:    in.CustomerTaxID,
		Status:           models.StatusPending,
		ProviderChargeID: created.ChargeID,
		CorrelationID:    correlationID,
		PixCode:          created.BRCode,
		QRCodeImage:      created.QRCodeImage,
	}

	result := &Result{
		Success:        true,
		OrderID:        orderID,
		CorrelationID:  correlationID,
		Amount:         fee.FromCents(amountCents),
		Fee:            fee.FromCents(feeCents),
		NetAmount:      fee.FromCents(netCents),
		PixCode:        created.BRCode,
		QRCodeImage:    created.QRCodeImage,
		ExpiresAt:      created.ExpiresAt,
		PaymentLinkURL: created.PaymentLinkURL,
	}

	if err := s.partners.CreateTransaction(ctx, pt); err != nil {
		s.logger.Error("partner transaction write failed after provider success",
			zap.String("correlation_id", correlationID),
			zap.Uint("partner_id", partner.ID),
			zap.Error(err))
		result.Warning = "charge created upstream; local record incomplete"
		return result, fmt.Errorf("%w: %v", ErrChargePersistedUpstream, err)
	}
	result.PartnerTransactionID = pt.ID

	if err := s.intents.MarkFulfilled(ctx, correlationID); err != nil {
		s.logger.Warn("failed to mark charge intent fulfilled",
			zap.String("correlation_id", correlationID), zap.Error(err))
	}
	return result, nil
}

// callProvider performs the provider call and settles the intent on
// failure. No local charge records exist for a failed provider call.
func (s *Service) callProvider(ctx context.Context, correlationID string, amountCents int64, comment string, in CreateChargeInput, splits []fee.Split) (*provider.CreatedCharge, error) {
	expiresIn := in.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = s.defaultExpiry
	}

	req := provider.ChargeRequest{
		CorrelationID: correlationID,
		Value:         amountCents,
		Comment:       comment,
		ExpiresIn:     expiresIn,
		Customer:      customerBlock(in),
	}
	for _, sp := range splits {
		req.Splits = append(req.Splits, provider.SplitLine{PixKey: sp.PixKey, Value: sp.Value})
	}

	created, err := s.gateway.CreateCharge(ctx, req)
	if err != nil {
		if markErr := s.intents.MarkFailed(ctx, correlationID); markErr != nil {
			s.logger.Warn("failed to mark charge intent failed",
				zap.String("correlation_id", correlationID), zap.Error(markErr))
		}
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return created, nil
}

// customerBlock builds the provider customer object, or nil when no
// identifier beyond the name is present.
func customerBlock(in CreateChargeInput) *provider.Customer {
	c := provider.Customer{
		Name:  in.CustomerName,
		Email: in.CustomerEmail,
		Phone: in.CustomerPhone,
		TaxID: in.CustomerTaxID,
	}
	if !c.HasIdentifier() {
		return nil
	}
	return &c
}

// newCorrelationID produces a collision-resistant id: random uuid plus a
// time component, unique across all charges ever created.
func newCorrelationID() string {
	return fmt.Sprintf("%s-%d", uuid.NewString(), time.Now().UnixNano())
}

// notFound maps a missing-row lookup to the domain sentinel and keeps
// infrastructure errors distinguishable.
func notFound(err, sentinel error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return sentinel
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
