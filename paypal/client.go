// Package paypal is a thin REST client for the PayPal Orders v2 API. It
// only knows how to obtain an access token, create a CAPTURE order and
// capture it; processor responses are handed back untouched so callers can
// relay them.
package paypal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const (
	tokenPath   = "/v1/oauth2/token"
	ordersPath  = "/v2/checkout/orders"
	capturePath = "/v2/checkout/orders/{orderID}/capture"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Currency     string
	Timeout      time.Duration
}

type Client struct {
	http *resty.Client
	cfg  Config
}

func New(cfg Config) *Client {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("Accept", "application/json"),
		cfg: cfg,
	}
}

// Response is a processor reply: its HTTP status and raw JSON body.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// OK reports a 2xx processor status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AccessToken exchanges the client credentials for a bearer token. A fresh
// token is requested for every order operation.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", errors.New("paypal client credentials are not set")
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		Post(tokenPath)
	if err != nil {
		return "", errors.Wrap(err, "request token")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", errors.Errorf("token request failed with status %d", resp.StatusCode())
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body(), &token); err != nil {
		return "", errors.Wrap(err, "parse token response")
	}
	if token.AccessToken == "" {
		return "", errors.New("token not found in response")
	}
	return token.AccessToken, nil
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	Amount amount `json:"amount"`
}

type orderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

// CreateOrder opens a CAPTURE order for total, formatted with two decimals.
func (c *Client) CreateOrder(ctx context.Context, total decimal.Decimal) (*Response, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := orderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount: amount{CurrencyCode: c.cfg.Currency, Value: total.StringFixed(2)},
		}},
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(ordersPath)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return toResponse(resp)
}

// CaptureOrder captures a previously approved order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Response, error) {
	if orderID == "" {
		return nil, errors.New("order id is required")
	}
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetPathParam("orderID", orderID).
		Post(capturePath)
	if err != nil {
		return nil, errors.Wrap(err, "capture order")
	}
	return toResponse(resp)
}

func toResponse(resp *resty.Response) (*Response, error) {
	body := resp.Body()
	if !json.Valid(body) {
		return nil, errors.Errorf("non-JSON response with status %d", resp.StatusCode())
	}
	return &Response{StatusCode: resp.StatusCode(), Body: json.RawMessage(body)}, nil
}

// Capture is the audit-relevant subset of a capture response.
type Capture struct {
	OrderID       string
	Status        string
	PayerEmail    string
	TransactionID string
	CaptureStatus string
	Amount        decimal.Decimal
	Currency      string
	CreateTime    string
	UpdateTime    string
}

type captureResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID         string `json:"id"`
				Status     string `json:"status"`
				Amount     amount `json:"amount"`
				CreateTime string `json:"create_time"`
				UpdateTime string `json:"update_time"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// ParseCapture extracts the first capture of the first purchase unit.
func ParseCapture(body []byte) (*Capture, error) {
	var r captureResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, errors.Wrap(err, "parse capture")
	}
	if len(r.PurchaseUnits) == 0 || len(r.PurchaseUnits[0].Payments.Captures) == 0 {
		return nil, errors.New("capture response has no captures")
	}

	capture := r.PurchaseUnits[0].Payments.Captures[0]
	value := decimal.Zero
	if capture.Amount.Value != "" {
		v, err := decimal.NewFromString(capture.Amount.Value)
		if err != nil {
			return nil, errors.Wrap(err, "parse capture amount")
		}
		value = v
	}

	return &Capture{
		OrderID:       r.ID,
		Status:        r.Status,
		PayerEmail:    r.Payer.EmailAddress,
		TransactionID: capture.ID,
		CaptureStatus: capture.Status,
		Amount:        value,
		Currency:      capture.Amount.CurrencyCode,
		CreateTime:    capture.CreateTime,
		UpdateTime:    capture.UpdateTime,
	}, nil
}
