package billing

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client talks to the billing processor's REST API.
type Client struct {
	apiURL     string
	secretKey  string
	httpClient *http.Client
}

func NewClient(apiURL, secretKey string) *Client {
	return &Client{
		apiURL:     apiURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type CheckoutSessionRequest struct {
	CustomerRef string            `json:"customer_ref,omitempty"`
	Plan        string            `json:"plan"`
	PriceCents  int64             `json:"price_cents"`
	Currency    string            `json:"currency"`
	TrialDays   int               `json:"trial_days"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type SessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type PortalSessionRequest struct {
	CustomerRef string `json:"customer_ref"`
	ReturnURL   string `json:"return_url"`
}

type CreateCustomerRequest struct {
	Email    string            `json:"email"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Customer struct {
	ID string `json:"id"`
}

func (c *Client) newRequest(method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("unexpected status: " + resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateCheckoutSession opens a hosted checkout page for the given plan.
func (c *Client) CreateCheckoutSession(reqParams CheckoutSessionRequest) (*SessionResponse, error) {
	req, err := c.newRequest("POST", "/checkout/sessions", reqParams)
	if err != nil {
		return nil, err
	}

	var session SessionResponse
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreatePortalSession opens the processor's self-service portal for an
// existing customer.
func (c *Client) CreatePortalSession(reqParams PortalSessionRequest) (*SessionResponse, error) {
	req, err := c.newRequest("POST", "/portal/sessions", reqParams)
	if err != nil {
		return nil, err
	}

	var session SessionResponse
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) CreateCustomer(reqParams CreateCustomerRequest) (*Customer, error) {
	req, err := c.newRequest("POST", "/customers", reqParams)
	if err != nil {
		return nil, err
	}

	var customer Customer
	if err := c.do(req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
