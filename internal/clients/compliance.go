package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ledgerline/onboarding/internal/models"
	"github.com/ledgerline/onboarding/internal/snapshot"
)

// ComplianceClient reads the automated risk-review state for a merchant.
type ComplianceClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewComplianceClient(baseURL string) *ComplianceClient {
	return &ComplianceClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (c *ComplianceClient) GetReview(ctx context.Context, merchantID string) (snapshot.ComplianceUpdate, error) {
	url := fmt.Sprintf("%s/api/merchants/%s/review", c.baseURL, merchantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return snapshot.ComplianceUpdate{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return snapshot.ComplianceUpdate{}, err
	}
	defer resp.Body.Close()

	// No review record yet: details were never submitted.
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound {
		return snapshot.ComplianceUpdate{}, nil
	}

	if resp.StatusCode != http.StatusOK {
		return snapshot.ComplianceUpdate{}, fmt.Errorf("compliance service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return snapshot.ComplianceUpdate{}, err
	}

	var payload struct {
		DetailsSubmittedAt  *time.Time `json:"details_submitted_at"`
		Verdict             string     `json:"verdict"`
		AppealDecision      string     `json:"appeal_decision"`
		AppealSubmittedAt   *time.Time `json:"appeal_submitted_at"`
		RequirementsPending []string   `json:"requirements_pending"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return snapshot.ComplianceUpdate{}, err
	}

	return snapshot.ComplianceUpdate{
		DetailsSubmittedAt:  payload.DetailsSubmittedAt,
		Verdict:             models.Verdict(payload.Verdict),
		AppealDecision:      models.AppealDecision(payload.AppealDecision),
		AppealSubmittedAt:   payload.AppealSubmittedAt,
		RequirementsPending: payload.RequirementsPending,
	}, nil
}
