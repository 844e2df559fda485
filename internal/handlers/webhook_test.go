package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pixgate/internal/models"
	"pixgate/internal/services/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a single-namespace in-memory correlation store.
type memStore struct {
	statuses map[string]string
}

func (s *memStore) FindByCorrelationID(ctx context.Context, correlationID string) (reconcile.Reconcilable, error) {
	if _, ok := s.statuses[correlationID]; !ok {
		return nil, reconcile.ErrNotFound
	}
	return &memRecord{store: s, correlationID: correlationID}, nil
}

type memRecord struct {
	store         *memStore
	correlationID string
}

func (r *memRecord) Namespace() string { return reconcile.NamespaceMerchant }

func (r *memRecord) Apply(ctx context.Context, status string, paidAt *time.Time) (*reconcile.Outcome, error) {
	changed := r.store.statuses[r.correlationID] != status
	r.store.statuses[r.correlationID] = status
	return &reconcile.Outcome{
		Namespace:     reconcile.NamespaceMerchant,
		CorrelationID: r.correlationID,
		Status:        status,
		MerchantID:    1,
		Transaction:   &models.Transaction{ID: 1, MerchantID: 1, Status: status},
		Changed:       changed,
	}, nil
}

type silentNotifier struct{}

func (silentNotifier) Dispatch(ctx context.Context, merchantID uint, event string, tx *models.Transaction) {
}

type silentInvalidator struct{}

func (silentInvalidator) Invalidate(ctx context.Context, merchantID uint) {}

func newWebhookApp(t *testing.T, store *memStore) *fiber.App {
	t.Helper()
	svc := reconcile.NewService(silentNotifier{}, silentInvalidator{}, nil, store)
	handler := NewWebhookHandler(svc, nil)

	app := fiber.New()
	app.All("/api/webhooks/provider", handler.Handle)
	return app
}

func TestWebhookAcknowledgesProbes(t *testing.T) {
	app := newWebhookApp(t, &memStore{statuses: map[string]string{}})

	// Registration probes arrive as GET and as empty POST bodies.
	resp, err := app.Test(httptest.NewRequest("GET", "/api/webhooks/provider", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("POST", "/api/webhooks/provider", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWebhookMissingCorrelationID(t *testing.T) {
	app := newWebhookApp(t, &memStore{statuses: map[string]string{}})

	req := httptest.NewRequest("POST", "/api/webhooks/provider",
		strings.NewReader(`{"event":"CHARGE_COMPLETED"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestWebhookUnknownCorrelationID(t *testing.T) {
	app := newWebhookApp(t, &memStore{statuses: map[string]string{}})

	req := httptest.NewRequest("POST", "/api/webhooks/provider",
		strings.NewReader(`{"event":"CHARGE_COMPLETED","charge":{"correlationID":"ghost"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWebhookUnknownEventIsIgnored(t *testing.T) {
	app := newWebhookApp(t, &memStore{statuses: map[string]string{}})

	req := httptest.NewRequest("POST", "/api/webhooks/provider",
		strings.NewReader(`{"event":"CHARGE_CREATED","charge":{"correlationID":"x"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "ignored", body["status"])
}

func TestWebhookProcessesKnownCharge(t *testing.T) {
	store := &memStore{statuses: map[string]string{"corr-1": models.StatusPending}}
	app := newWebhookApp(t, store)

	req := httptest.NewRequest("POST", "/api/webhooks/provider",
		strings.NewReader(`{"event":"CHARGE_COMPLETED","charge":{"correlationID":"corr-1"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "processed", body["status"])
	assert.Equal(t, true, body["changed"])
	assert.Equal(t, models.StatusApproved, store.statuses["corr-1"])
}
