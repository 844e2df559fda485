package provider

import (
	"context"
	"fmt"
	"net/http"
)

// Subaccount is a provider-managed sub-ledger for a partner's balance.
type Subaccount struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	PixKey  string `json:"pixKey"`
	Balance int64  `json:"balance"`
}

// SubaccountTransfer is the provider's record of funds leaving a
// subaccount.
type SubaccountTransfer struct {
	ID            string `json:"id"`
	Value         int64  `json:"value"`
	Status        string `json:"status"`
	EndToEndID    string `json:"endToEndId"`
	CorrelationID string `json:"correlationId"`
}

// CreateSubaccount registers a subaccount keyed by PIX key.
func (c *Client) CreateSubaccount(ctx context.Context, name, pixKey string) (*Subaccount, error) {
	req := map[string]string{"name": name, "pixKey": pixKey}
	var out struct {
		Subaccount Subaccount `json:"subAccount"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/subaccount", req, &out); err != nil {
		return nil, err
	}
	return &out.Subaccount, nil
}

// GetSubaccount fetches one subaccount.
func (c *Client) GetSubaccount(ctx context.Context, id string) (*Subaccount, error) {
	var out struct {
		Subaccount Subaccount `json:"subAccount"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/subaccount/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Subaccount, nil
}

// ListSubaccounts pages through registered subaccounts.
func (c *Client) ListSubaccounts(ctx context.Context, skip, limit int) ([]Subaccount, error) {
	path := fmt.Sprintf("/api/v1/subaccount?skip=%d&limit=%d", skip, limit)
	var out struct {
		Subaccounts []Subaccount `json:"subAccounts"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Subaccounts, nil
}

// DeleteSubaccount removes a subaccount at the provider.
func (c *Client) DeleteSubaccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/subaccount/"+id, nil, nil)
}

// Withdraw moves funds out of a subaccount to its PIX key.
func (c *Client) Withdraw(ctx context.Context, id string, valueCents int64) (*SubaccountTransfer, error) {
	req := map[string]int64{"value": valueCents}
	var out struct {
		Transaction SubaccountTransfer `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/subaccount/"+id+"/withdraw", req, &out); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

// Debit reduces a subaccount balance without a payout.
func (c *Client) Debit(ctx context.Context, id string, valueCents int64) error {
	req := map[string]int64{"value": valueCents}
	return c.do(ctx, http.MethodPost, "/api/v1/subaccount/"+id+"/debit", req, nil)
}

// Transfer moves funds between two subaccounts.
func (c *Client) Transfer(ctx context.Context, fromID, toID string, valueCents int64) error {
	req := map[string]interface{}{"from": fromID, "to": toID, "value": valueCents}
	return c.do(ctx, http.MethodPost, "/api/v1/subaccount/transfer", req, nil)
}
