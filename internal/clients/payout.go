package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ledgerline/onboarding/internal/models"
)

// PayoutClient reads the processor-hosted payout account for a merchant.
type PayoutClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPayoutClient(baseURL string) *PayoutClient {
	return &PayoutClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

// GetAccount returns the payout account, or nil when none has been created
// yet. restricted is true when the viewer lacks admin rights on the account
// (a 403 upstream); that is a signal value, not an error.
func (c *PayoutClient) GetAccount(ctx context.Context, merchantID string) (account *models.PayoutAccount, restricted bool, err error) {
	url := fmt.Sprintf("%s/api/merchants/%s/payout-account", c.baseURL, merchantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusForbidden:
		return nil, true, nil
	case http.StatusNotFound, http.StatusNoContent:
		return nil, false, nil
	case http.StatusOK:
	default:
		return nil, false, fmt.Errorf("payout service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}

	var payload struct {
		StripeID           *string `json:"stripe_id"`
		IsDetailsSubmitted bool    `json:"is_details_submitted"`
		IsPayoutsEnabled   bool    `json:"is_payouts_enabled"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, err
	}

	return &models.PayoutAccount{
		Exists:           true,
		HasProcessorID:   payload.StripeID != nil && *payload.StripeID != "",
		DetailsSubmitted: payload.IsDetailsSubmitted,
		PayoutsEnabled:   payload.IsPayoutsEnabled,
	}, false, nil
}
