package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ledgerline/onboarding/internal/models"
)

// IdentityClient reads the merchant representative's identity-verification
// status.
type IdentityClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewIdentityClient(baseURL string) *IdentityClient {
	return &IdentityClient{
		baseURL:    baseURL,
		httpClient: newHTTPClient(),
	}
}

func (c *IdentityClient) GetStatus(ctx context.Context, merchantID string) (models.IdentityStatus, error) {
	url := fmt.Sprintf("%s/api/merchants/%s/identity", c.baseURL, merchantID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return models.IdentityUnverified, nil
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload struct {
		IdentityVerificationStatus string `json:"identity_verification_status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	switch status := models.IdentityStatus(payload.IdentityVerificationStatus); status {
	case models.IdentityPending, models.IdentityVerified:
		return status, nil
	default:
		// Anything unrecognized counts as unverified, the conservative read.
		return models.IdentityUnverified, nil
	}
}
