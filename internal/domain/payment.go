package domain

import "encoding/json"

// Product selects which MoMo API family a call is directed at. Collections
// pull money from a payer; disbursements push money to a payee.
type Product string

const (
	ProductCollection   Product = "collection"
	ProductDisbursement Product = "disbursement"
)

// ParseProduct maps a caller-supplied product selector onto a Product.
// An empty selector means collection, matching the original proxy behavior
// where only an explicit disbursement flag switched endpoints.
func ParseProduct(s string) (Product, error) {
	switch s {
	case "", string(ProductCollection):
		return ProductCollection, nil
	case string(ProductDisbursement):
		return ProductDisbursement, nil
	default:
		return "", &ValidationError{Field: "product", Reason: "must be collection or disbursement"}
	}
}

// PartyIDTypeMSISDN identifies payers and payees by mobile subscriber number.
const PartyIDTypeMSISDN = "MSISDN"

// PaymentRequest is the single request shape at the gateway boundary for both
// request-to-pay and transfer. ExternalID doubles as the provider-side
// idempotency key (X-Reference-Id); when empty the usecase generates one.
type PaymentRequest struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId,omitempty"`
	PartyID      string `json:"partyId"`
	PayerMessage string `json:"payerMessage,omitempty"`
	PayeeNote    string `json:"payeeNote,omitempty"`
}

// Validate checks the fields the provider rejects outright when absent.
func (r *PaymentRequest) Validate() error {
	if r.Amount == "" {
		return &ValidationError{Field: "amount", Reason: "is required"}
	}
	if r.Currency == "" {
		return &ValidationError{Field: "currency", Reason: "is required"}
	}
	if r.PartyID == "" {
		return &ValidationError{Field: "partyId", Reason: "is required"}
	}
	return nil
}

// PaymentResult is returned once MoMo has accepted a request-to-pay or
// transfer. Acceptance is asynchronous; callers poll status by ExternalID.
type PaymentResult struct {
	Status     string `json:"status"`
	ExternalID string `json:"externalId"`
}

// StatusInitiated is the only status the gateway itself produces; everything
// after acceptance comes from the provider via status queries.
const StatusInitiated = "initiated"

// ProviderResponse is an opaque pass-through of a MoMo JSON response. The
// gateway does not interpret its fields; the HTTP layer forwards HTTPStatus
// and Body verbatim.
type ProviderResponse struct {
	HTTPStatus int
	Body       json.RawMessage
}
