package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pixgate/internal/models"
	"pixgate/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEndpointStore struct {
	endpoints []models.WebhookEndpoint
}

func (s *stubEndpointStore) ListActiveByMerchant(ctx context.Context, merchantID uint) ([]models.WebhookEndpoint, error) {
	return s.endpoints, nil
}

func TestDispatchFiltersBySubscription(t *testing.T) {
	var subscribedHits, otherHits atomic.Int32
	var gotEnvelope Envelope

	subscribed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subscribedHits.Add(1)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEnvelope))
	}))
	defer subscribed.Close()

	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		otherHits.Add(1)
	}))
	defer other.Close()

	store := &stubEndpointStore{endpoints: []models.WebhookEndpoint{
		{ID: 1, URL: subscribed.URL, Events: models.StringList{"payment_approved"}},
		{ID: 2, URL: other.URL, Events: models.StringList{"payment_refunded"}},
	}}

	paid := time.Now()
	tx := &models.Transaction{
		ID:            7,
		OrderID:       "ORD-1",
		Amount:        15000,
		Status:        models.StatusApproved,
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		PaidAt:        &paid,
	}

	d := NewDispatcher(store, nil, time.Second)
	d.Dispatch(context.Background(), 1, provider.EventChargeCompleted, tx)

	assert.Equal(t, int32(1), subscribedHits.Load())
	assert.Equal(t, int32(0), otherHits.Load())
	assert.Equal(t, provider.EventChargeCompleted, gotEnvelope.Event)
	assert.Equal(t, uint(7), gotEnvelope.Data.ID)
	assert.Equal(t, 150.00, gotEnvelope.Data.Amount)
	assert.Equal(t, "approved", gotEnvelope.Data.Status)
	assert.Equal(t, "Ana", gotEnvelope.Data.Customer.Name)
}

func TestDispatchFailureDoesNotAbortLoop(t *testing.T) {
	var hits atomic.Int32
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ok.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	store := &stubEndpointStore{endpoints: []models.WebhookEndpoint{
		{ID: 1, URL: "http://127.0.0.1:1/unreachable", Events: models.StringList{"payment_approved"}},
		{ID: 2, URL: failing.URL, Events: models.StringList{"payment_approved"}},
		{ID: 3, URL: ok.URL, Events: models.StringList{"payment_approved"}},
	}}

	tx := &models.Transaction{ID: 1, Amount: 100, Status: models.StatusApproved}
	d := NewDispatcher(store, nil, time.Second)
	d.Dispatch(context.Background(), 1, provider.EventChargeCompleted, tx)

	assert.Equal(t, int32(1), hits.Load())
}

func TestSubscribedMatchesExactEventName(t *testing.T) {
	ep := models.WebhookEndpoint{Events: models.StringList{provider.EventChargeExpired}}

	assert.True(t, Subscribed(ep, provider.EventChargeExpired, models.StatusExpired))
	assert.False(t, Subscribed(ep, provider.EventChargeCompleted, models.StatusApproved))
}
