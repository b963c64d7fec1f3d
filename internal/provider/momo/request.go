package momo

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"momo-gateway/config"
	"momo-gateway/internal/domain"
)

// Outbound request builders. All of these are deterministic given their
// inputs; externalId generation belongs to the caller, not here.

type party struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

type paymentPayload struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId"`
	Payer        *party `json:"payer,omitempty"`
	Payee        *party `json:"payee,omitempty"`
	PayerMessage string `json:"payerMessage"`
	PayeeNote    string `json:"payeeNote"`
}

func requestToPayPayload(req *domain.PaymentRequest) paymentPayload {
	return paymentPayload{
		Amount:     req.Amount,
		Currency:   req.Currency,
		ExternalID: req.ExternalID,
		Payer: &party{
			PartyIDType: domain.PartyIDTypeMSISDN,
			PartyID:     NormalizeMSISDN(req.PartyID),
		},
		PayerMessage: req.PayerMessage,
		PayeeNote:    req.PayeeNote,
	}
}

// transferPayload is the request-to-pay shape with payee substituted for
// payer, directed at the disbursement product.
func transferPayload(req *domain.PaymentRequest) paymentPayload {
	return paymentPayload{
		Amount:     req.Amount,
		Currency:   req.Currency,
		ExternalID: req.ExternalID,
		Payee: &party{
			PartyIDType: domain.PartyIDTypeMSISDN,
			PartyID:     NormalizeMSISDN(req.PartyID),
		},
		PayerMessage: req.PayerMessage,
		PayeeNote:    req.PayeeNote,
	}
}

// NormalizeMSISDN strips a single leading "+" from a subscriber number.
// A number that is already digits-only passes through unchanged, so applying
// the builder to pre-normalized input never double-strips.
func NormalizeMSISDN(partyID string) string {
	return strings.TrimPrefix(partyID, "+")
}

// tokenRequest builds the POST to the product's token endpoint: Basic auth
// from the API user credentials, the product's subscription key, and an empty
// JSON body.
func tokenRequest(ctx context.Context, cfg config.MomoConfig, product domain.Product) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL(cfg.BaseURL, product), strings.NewReader("{}"))
	if err != nil {
		return nil, err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(cfg.APIUserID + ":" + cfg.APIKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Ocp-Apim-Subscription-Key", cfg.SubscriptionKey(product))
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func tokenURL(base string, product domain.Product) string {
	return fmt.Sprintf("%s/%s/token/", base, product)
}

func paymentURL(base string, product domain.Product) string {
	if product == domain.ProductDisbursement {
		return base + "/disbursement/v1_0/transfer"
	}
	return base + "/collection/v1_0/requesttopay"
}

func statusURL(base string, product domain.Product, externalID string) string {
	return paymentURL(base, product) + "/" + externalID
}

func balanceURL(base string) string {
	return base + "/collection/v1_0/account/balance"
}
