package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/complyhub/complyhub/internal/shared"
)

// PaymentsClient proxies the hosted payments provider. Calls are opaque:
// this system never touches card data, it only creates provider sessions and
// reads subscription state back.
type PaymentsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPaymentsClient constructs a client.
func NewPaymentsClient(baseURL, apiKey string) *PaymentsClient {
	return &PaymentsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CheckoutSession is the provider's hosted-checkout handle.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SubscriptionState is the provider's view of one customer subscription.
type SubscriptionState struct {
	CustomerRef string `json:"customer_ref"`
	Status      string `json:"status"`
	PlanID      int64  `json:"plan_id"`
}

// CreateCheckoutSession opens a hosted checkout for the given package.
func (c *PaymentsClient) CreateCheckoutSession(ctx context.Context, customerRef string, packageID int64) (CheckoutSession, error) {
	var session CheckoutSession
	err := c.post(ctx, "/v1/checkout/sessions", map[string]any{
		"customer_ref": customerRef,
		"package_id":   packageID,
	}, &session)
	return session, err
}

// CreatePortalSession opens the provider's self-service billing portal.
func (c *PaymentsClient) CreatePortalSession(ctx context.Context, customerRef string) (CheckoutSession, error) {
	var session CheckoutSession
	err := c.post(ctx, "/v1/portal/sessions", map[string]any{
		"customer_ref": customerRef,
	}, &session)
	return session, err
}

// ListSubscriptions returns the provider's current subscription states.
func (c *PaymentsClient) ListSubscriptions(ctx context.Context) ([]SubscriptionState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/subscriptions", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: payments provider returned status %d", shared.ErrTransport, resp.StatusCode)
	}

	var states []SubscriptionState
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("%w: decode subscriptions: %v", shared.ErrTransport, err)
	}
	return states, nil
}

func (c *PaymentsClient) post(ctx context.Context, path string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: payments provider returned status %d", shared.ErrTransport, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode session: %v", shared.ErrTransport, err)
	}
	return nil
}
