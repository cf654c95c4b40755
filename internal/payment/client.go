// Package payment integrates the external payment gateway: transaction
// registration on checkout and webhook reconciliation afterwards.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitforge/kitshop/internal/order"
)

// Config carries the gateway contract constants. MerchantID, PosID and CRC
// feed the signature; APIKey authenticates the REST calls.
type Config struct {
	BaseURL    string
	MerchantID int
	PosID      int
	APIKey     string
	CRC        string
	Currency   string
	Country    string
	// customer-facing redirect target after payment
	ReturnURL string
	// server-to-server webhook target
	StatusURL string
}

// GatewayError is an unavailable, rejecting or timed-out gateway. Retryable
// only by registering a fresh transaction, never by resuming the old one.
type GatewayError struct {
	Reason string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("gateway: %s", e.Reason)
}

func (e *GatewayError) Unwrap() error { return e.Err }

type Client struct {
	http *http.Client
	cfg  Config
	log  *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	return &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		cfg:  cfg,
		log:  log,
	}
}

type registerRequest struct {
	MerchantID  int    `json:"merchantId"`
	PosID       int    `json:"posId"`
	SessionID   string `json:"sessionId"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	URLReturn   string `json:"urlReturn"`
	URLStatus   string `json:"urlStatus"`
	Sign        string `json:"sign"`
}

type registerResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// RegisterTransaction registers a payment session with the gateway, keyed by
// the order number, and returns the redirect token. Never called for
// cash-on-delivery orders; no order state changes on failure.
func (c *Client) RegisterTransaction(ctx context.Context, o *order.Order) (string, error) {
	amount := MinorUnits(o.Total)
	req := registerRequest{
		MerchantID:  c.cfg.MerchantID,
		PosID:       c.cfg.PosID,
		SessionID:   o.OrderNumber,
		Amount:      amount,
		Currency:    o.Currency,
		Description: fmt.Sprintf("Order %s", o.OrderNumber),
		Email:       o.CustomerEmail,
		Country:     c.cfg.Country,
		URLReturn:   c.cfg.ReturnURL,
		URLStatus:   c.cfg.StatusURL,
		Sign:        registerSign(o.OrderNumber, c.cfg.MerchantID, amount, o.Currency, c.cfg.CRC),
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode register request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/api/v1/transaction/register",
		bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build register request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(strconv.Itoa(c.cfg.PosID), c.cfg.APIKey)

	res, err := c.http.Do(httpReq)
	if err != nil {
		return "", &GatewayError{Reason: "transaction registration failed", Err: err}
	}
	defer res.Body.Close()

	var out registerResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", &GatewayError{Reason: fmt.Sprintf("unreadable response (status %d)", res.StatusCode), Err: err}
	}
	if res.StatusCode != http.StatusOK || out.Error != "" {
		reason := out.Error
		if reason == "" {
			reason = res.Status
		}
		c.log.Error("gateway rejected transaction registration",
			zap.String("order_number", o.OrderNumber),
			zap.Int("status", res.StatusCode),
			zap.String("reason", reason),
		)
		return "", &GatewayError{Reason: reason}
	}
	if out.Data.Token == "" {
		return "", &GatewayError{Reason: "registration response carried no token"}
	}

	c.log.Info("transaction registered",
		zap.String("order_number", o.OrderNumber),
		zap.Int64("amount", amount),
		zap.String("currency", o.Currency),
	)
	return out.Data.Token, nil
}

// RedirectURL builds the customer-facing payment page URL for a token.
func (c *Client) RedirectURL(token string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/trnRequest/" + token
}
