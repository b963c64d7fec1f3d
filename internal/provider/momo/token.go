package momo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"momo-gateway/internal/domain"

	"go.uber.org/zap"
)

// expiryMargin is subtracted from the provider-reported token lifetime so a
// token is never presented in the last moments of its validity window; it
// absorbs clock skew and in-flight request latency.
const expiryMargin = 300 * time.Second

// defaultExpiresIn applies when the token response omits expires_in.
const defaultExpiresIn = 3600

type cachedToken struct {
	value     string
	expiresAt time.Time
}

func (t cachedToken) valid(now time.Time) bool {
	return t.value != "" && now.Before(t.expiresAt)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// accessToken returns a bearer token for the product, refreshing when the
// cached one is absent or past its margin. Concurrent refreshes for the same
// product collapse into one outbound call through the singleflight group;
// every waiter receives the same token. A refresh that fails (including by
// timeout) leaves any previously cached token untouched and releases the
// flight so the next caller can retry.
func (c *Client) accessToken(ctx context.Context, product domain.Product) (string, error) {
	c.mu.Lock()
	tok := c.tokens[product]
	c.mu.Unlock()
	if tok.valid(c.now()) {
		return tok.value, nil
	}

	v, err, _ := c.flight.Do(string(product), func() (interface{}, error) {
		// Another caller may have finished a refresh between the check
		// above and entry into the flight.
		c.mu.Lock()
		tok := c.tokens[product]
		c.mu.Unlock()
		if tok.valid(c.now()) {
			return tok.value, nil
		}
		return c.refreshToken(ctx, product)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) refreshToken(ctx context.Context, product domain.Product) (string, error) {
	req, err := tokenRequest(ctx, c.cfg, product)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	c.logger.Info("refreshing momo access token", zap.String("product", string(product)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError("token request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("momo token request failed",
			zap.String("product", string(product)),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", &domain.AuthError{Status: resp.StatusCode, Body: body}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &domain.AuthError{Status: resp.StatusCode, Body: body, Err: fmt.Errorf("parse token response: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", &domain.AuthError{Status: resp.StatusCode, Body: body, Err: fmt.Errorf("token response has no access_token")}
	}

	expiresIn := tr.ExpiresIn
	if expiresIn == 0 {
		expiresIn = defaultExpiresIn
	}

	tok := cachedToken{
		value:     tr.AccessToken,
		expiresAt: c.now().Add(time.Duration(expiresIn)*time.Second - expiryMargin),
	}

	c.mu.Lock()
	c.tokens[product] = tok
	c.mu.Unlock()

	c.logger.Info("momo access token refreshed",
		zap.String("product", string(product)),
		zap.Int64("expires_in", expiresIn))

	return tok.value, nil
}
