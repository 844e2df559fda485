package reconcile

import (
	"context"
	"testing"
	"time"

	"pixgate/internal/models"
	"pixgate/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps its records in memory and applies transitions the same
// way the gorm-backed stores do: conditionally on a status change.
type fakeStore struct {
	namespace string
	statuses  map[string]string
	paidAt    map[string]*time.Time
	applied   int
}

func newFakeStore(namespace string) *fakeStore {
	return &fakeStore{
		namespace: namespace,
		statuses:  make(map[string]string),
		paidAt:    make(map[string]*time.Time),
	}
}

func (s *fakeStore) FindByCorrelationID(ctx context.Context, correlationID string) (Reconcilable, error) {
	if _, ok := s.statuses[correlationID]; !ok {
		return nil, ErrNotFound
	}
	return &fakeRecord{store: s, correlationID: correlationID}, nil
}

type fakeRecord struct {
	store         *fakeStore
	correlationID string
}

func (r *fakeRecord) Namespace() string { return r.store.namespace }

func (r *fakeRecord) Apply(ctx context.Context, status string, paidAt *time.Time) (*Outcome, error) {
	s := r.store
	s.applied++
	if s.namespace == NamespacePartner && status == models.StatusApproved {
		status = models.StatusCompleted
	}
	changed := s.statuses[r.correlationID] != status
	s.statuses[r.correlationID] = status
	if paidAt != nil {
		s.paidAt[r.correlationID] = paidAt
	}
	out := &Outcome{
		Namespace:     s.namespace,
		CorrelationID: r.correlationID,
		Status:        status,
		Changed:       changed,
	}
	if s.namespace == NamespaceMerchant {
		out.MerchantID = 1
		out.Transaction = &models.Transaction{ID: 10, MerchantID: 1, Status: status}
	}
	return out, nil
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) Dispatch(ctx context.Context, merchantID uint, event string, tx *models.Transaction) {
	n.calls = append(n.calls, event)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(ctx context.Context, merchantID uint) {}

func chargeCompleted(correlationID string, paidAt time.Time) *provider.WebhookPayload {
	return &provider.WebhookPayload{
		Event:  provider.EventChargeCompleted,
		Charge: &provider.WebhookCharge{CorrelationID: correlationID, PaidAt: &paidAt},
	}
}

func TestHandleEventIsIdempotent(t *testing.T) {
	charges := newFakeStore(NamespaceMerchant)
	charges.statuses["corr-1"] = models.StatusPending
	notifier := &recordingNotifier{}
	svc := NewService(notifier, noopInvalidator{}, nil, charges, newFakeStore(NamespacePartner))

	payload := chargeCompleted("corr-1", time.Now())

	first, err := svc.HandleEvent(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, first.Status)
	assert.True(t, first.Changed)

	second, err := svc.HandleEvent(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, second.Status)
	assert.False(t, second.Changed)
	assert.Equal(t, models.StatusApproved, charges.statuses["corr-1"])

	// Fan-out is at-least-once: attempted again on replay.
	assert.Len(t, notifier.calls, 2)
}

func TestCorrelationLookupIsExclusiveAndOrdered(t *testing.T) {
	charges := newFakeStore(NamespaceMerchant)
	partners := newFakeStore(NamespacePartner)
	charges.statuses["merchant-corr"] = models.StatusPending
	partners.statuses["partner-corr"] = models.StatusPending
	svc := NewService(&recordingNotifier{}, noopInvalidator{}, nil, charges, partners)

	out, err := svc.HandleEvent(context.Background(), chargeCompleted("merchant-corr", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, NamespaceMerchant, out.Namespace)
	assert.Zero(t, partners.applied)

	out, err = svc.HandleEvent(context.Background(), chargeCompleted("partner-corr", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, NamespacePartner, out.Namespace)
	assert.Equal(t, models.StatusCompleted, out.Status)
}

func TestPartnerNamespaceMapsApprovedToCompleted(t *testing.T) {
	partners := newFakeStore(NamespacePartner)
	partners.statuses["corr-p"] = models.StatusPending
	notifier := &recordingNotifier{}
	svc := NewService(notifier, noopInvalidator{}, nil, newFakeStore(NamespaceMerchant), partners)

	out, err := svc.HandleEvent(context.Background(), chargeCompleted("corr-p", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, partners.statuses["corr-p"])
	assert.Equal(t, NamespacePartner, out.Namespace)

	// No merchant fan-out for partner sales.
	assert.Empty(t, notifier.calls)
}

func TestHandleEventUnknownCorrelationID(t *testing.T) {
	svc := NewService(&recordingNotifier{}, noopInvalidator{}, nil,
		newFakeStore(NamespaceMerchant), newFakeStore(NamespacePartner))

	_, err := svc.HandleEvent(context.Background(), chargeCompleted("ghost", time.Now()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandleEventUnknownEvent(t *testing.T) {
	svc := NewService(&recordingNotifier{}, noopInvalidator{}, nil, newFakeStore(NamespaceMerchant))

	_, err := svc.HandleEvent(context.Background(), &provider.WebhookPayload{Event: "CHARGE_CREATED"})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestHandleEventMissingCorrelationID(t *testing.T) {
	svc := NewService(&recordingNotifier{}, noopInvalidator{}, nil, newFakeStore(NamespaceMerchant))

	_, err := svc.HandleEvent(context.Background(), &provider.WebhookPayload{Event: provider.EventChargeExpired})
	assert.ErrorIs(t, err, ErrMissingCorrelationID)
}

func TestStatusForEvent(t *testing.T) {
	tests := []struct {
		event  string
		status string
		known  bool
	}{
		{provider.EventChargeCompleted, models.StatusApproved, true},
		{provider.EventTransactionReceived, models.StatusApproved, true},
		{provider.EventChargeExpired, models.StatusExpired, true},
		{provider.EventTransactionRefundReceived, models.StatusRefunded, true},
		{"MOVEMENT_CONFIRMED", "", false},
	}

	for _, tt := range tests {
		status, ok := StatusForEvent(tt.event)
		assert.Equal(t, tt.known, ok, tt.event)
		assert.Equal(t, tt.status, status, tt.event)
	}
}
