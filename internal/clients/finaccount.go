package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ledgerline/onboarding/internal/models"
	"github.com/ledgerline/onboarding/internal/utils"
)

// FinancialAccountClient reads the treasury-style financial account holding
// the merchant's operating cash.
type FinancialAccountClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFinancialAccountClient(baseURL string) *FinancialAccountClient {
	return &FinancialAccountClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

// GetAccount returns the financial account, or nil when it has not been
// provisioned yet. A 404 is the expected pre-provisioning answer and is not
// retried within a cycle.
func (c *FinancialAccountClient) GetAccount(ctx context.Context, merchantID string) (*models.FinancialAccount, error) {
	url := fmt.Sprintf("%s/api/merchants/%s/financial-account", c.baseURL, merchantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("financial-account service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Status  string `json:"status"`
		Balance struct {
			Cash            int64 `json:"cash"`
			Effective       int64 `json:"effective"`
			InboundPending  int64 `json:"inbound_pending"`
			OutboundPending int64 `json:"outbound_pending"`
		} `json:"balance"`
		ABARoutingNumber *string `json:"aba_routing_number"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	account := &models.FinancialAccount{
		Status: models.FinancialAccountStatus(payload.Status),
		Balance: models.FinancialAccountBalance{
			Cash:            payload.Balance.Cash,
			Effective:       payload.Balance.Effective,
			InboundPending:  payload.Balance.InboundPending,
			OutboundPending: payload.Balance.OutboundPending,
		},
	}
	if payload.ABARoutingNumber != nil && utils.ValidateRoutingNumber(*payload.ABARoutingNumber) {
		account.ABARoutingNumber = *payload.ABARoutingNumber
	}
	return account, nil
}
