// Package momo is a client for the MTN Mobile Money Collections and
// Disbursements REST API. It owns token acquisition and caching; callers get
// four operations: RequestToPay, Transfer, TransactionStatus, AccountBalance.
package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"momo-gateway/config"
	"momo-gateway/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Client struct {
	cfg        config.MomoConfig
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	mu     sync.Mutex
	tokens map[domain.Product]cachedToken
	flight singleflight.Group
}

type Option func(*Client)

// WithHTTPClient replaces the outbound transport. Tests use it to point the
// client at a fake provider or to shrink the timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock replaces the time source used for token expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(cfg config.MomoConfig, logger *zap.Logger, opts ...Option) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
		tokens:     make(map[domain.Product]cachedToken),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestToPay asks MoMo to pull req.Amount from the payer's mobile money
// account. MoMo accepts with 202 and settles asynchronously; the returned
// ExternalID is the handle for later status queries.
func (c *Client) RequestToPay(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	return c.initiate(ctx, domain.ProductCollection, req)
}

// Transfer pushes req.Amount to the payee's mobile money account through the
// disbursement product.
func (c *Client) Transfer(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	return c.initiate(ctx, domain.ProductDisbursement, req)
}

func (c *Client) initiate(ctx context.Context, product domain.Product, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	if req.ExternalID == "" {
		return nil, &domain.ValidationError{Field: "externalId", Reason: "is required"}
	}

	token, err := c.accessToken(ctx, product)
	if err != nil {
		return nil, err
	}

	var payload paymentPayload
	if product == domain.ProductDisbursement {
		payload = transferPayload(req)
	} else {
		payload = requestToPayPayload(req)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", product, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, paymentURL(c.cfg.BaseURL, product), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", product, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-Reference-Id", req.ExternalID)
	httpReq.Header.Set("X-Target-Environment", c.cfg.TargetEnvironment)
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey(product))
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Info("initiating momo transaction",
		zap.String("product", string(product)),
		zap.String("external_id", req.ExternalID),
		zap.String("amount", req.Amount),
		zap.String("currency", req.Currency))

	status, respBody, err := c.do(httpReq, string(product)+" request")
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		c.logger.Error("momo rejected transaction",
			zap.String("product", string(product)),
			zap.String("external_id", req.ExternalID),
			zap.Int("status", status),
			zap.ByteString("body", respBody))
		return nil, &domain.ProviderError{Status: status, Body: respBody}
	}

	c.logger.Info("momo accepted transaction",
		zap.String("product", string(product)),
		zap.String("external_id", req.ExternalID),
		zap.Int("status", status))

	return &domain.PaymentResult{Status: domain.StatusInitiated, ExternalID: req.ExternalID}, nil
}

// TransactionStatus queries MoMo for the state of a previously initiated
// transaction. The provider's status code and JSON body are passed through
// untouched; a 2xx response whose body is not valid JSON is a ProviderError,
// never a silent pass-through.
func (c *Client) TransactionStatus(ctx context.Context, product domain.Product, externalID string) (*domain.ProviderResponse, error) {
	if externalID == "" {
		return nil, &domain.ValidationError{Field: "externalId", Reason: "is required"}
	}
	return c.passthrough(ctx, product, statusURL(c.cfg.BaseURL, product, externalID), "status query")
}

// AccountBalance fetches the collection account balance, passed through
// verbatim like TransactionStatus.
func (c *Client) AccountBalance(ctx context.Context) (*domain.ProviderResponse, error) {
	return c.passthrough(ctx, domain.ProductCollection, balanceURL(c.cfg.BaseURL), "balance query")
}

func (c *Client) passthrough(ctx context.Context, product domain.Product, url, op string) (*domain.ProviderResponse, error) {
	token, err := c.accessToken(ctx, product)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("X-Target-Environment", c.cfg.TargetEnvironment)
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey(product))

	status, body, err := c.do(httpReq, op)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		c.logger.Warn("momo "+op+" returned error status",
			zap.String("product", string(product)),
			zap.Int("status", status),
			zap.ByteString("body", body))
		return nil, &domain.ProviderError{Status: status, Body: body}
	}

	if !json.Valid(body) {
		c.logger.Error("momo "+op+" returned malformed body",
			zap.String("product", string(product)),
			zap.Int("status", status))
		return nil, &domain.ProviderError{Status: status, Body: body, Err: errors.New("response body is not valid JSON")}
	}

	return &domain.ProviderResponse{HTTPStatus: status, Body: body}, nil
}

func (c *Client) do(req *http.Request, op string) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, classifyTransportError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s response: %w", op, err)
	}
	return resp.StatusCode, body, nil
}

// classifyTransportError separates timeouts from other transport failures so
// the HTTP layer can answer 504 instead of a generic 500.
func classifyTransportError(op string, err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &domain.TimeoutError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
