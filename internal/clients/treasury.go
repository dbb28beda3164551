package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledgerline/onboarding/internal/models"
)

// TreasuryClient reads the fund-lifecycle summary for a merchant. The
// treasury service is polled on a fixed interval; it has no push channel.
type TreasuryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTreasuryClient(baseURL string) *TreasuryClient {
	return &TreasuryClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (c *TreasuryClient) GetFundSummary(ctx context.Context, merchantID string) (models.FundSummary, error) {
	url := fmt.Sprintf("%s/api/merchants/%s/funds", c.baseURL, merchantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.FundSummary{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.FundSummary{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FundSummary{}, fmt.Errorf("treasury service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.FundSummary{}, err
	}

	var payload struct {
		FundSummary struct {
			PendingAmount   int64 `json:"pending_amount"`
			ReserveAmount   int64 `json:"reserve_amount"`
			SpendableAmount int64 `json:"spendable_amount"`
			TotalAmount     int64 `json:"total_amount"`
		} `json:"fund_summary"`
		Restrictions       []string   `json:"restrictions"`
		PendingExplanation string     `json:"pending_explanation"`
		ReserveExplanation string     `json:"reserve_explanation"`
		LastRecalculatedAt *time.Time `json:"last_recalculated_at"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.FundSummary{}, err
	}

	return models.FundSummary{
		PendingAmount:      payload.FundSummary.PendingAmount,
		ReserveAmount:      payload.FundSummary.ReserveAmount,
		SpendableAmount:    payload.FundSummary.SpendableAmount,
		TotalAmount:        payload.FundSummary.TotalAmount,
		Restrictions:       payload.Restrictions,
		PendingExplanation: payload.PendingExplanation,
		ReserveExplanation: payload.ReserveExplanation,
		LastRecalculatedAt: payload.LastRecalculatedAt,
	}, nil
}
