// Package clients holds one read-only HTTP client per upstream signal
// service. Clients translate transport-level outcomes into signal values:
// a 403 on the payout account becomes restricted-viewer mode, a 404 on the
// financial account becomes "not yet provisioned". Only genuine transport
// failures and 5xx responses surface as errors, and those are non-fatal to
// the caller, which simply retries on its next poll.
package clients

import (
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
	}
}
