package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"momo-gateway/internal/domain"
	"momo-gateway/internal/usecase"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
	logger    *zap.Logger
}

func NewPaymentHandler(paymentUC *usecase.PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: paymentUC,
		logger:    logger,
	}
}

// paymentRequestBody is the wire shape accepted from clients. Older mobile
// clients send payerMobile/payeeMobile instead of partyId; the handler folds
// both spellings onto the one domain shape.
type paymentRequestBody struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId"`
	PartyID      string `json:"partyId"`
	PayerMobile  string `json:"payerMobile"`
	PayeeMobile  string `json:"payeeMobile"`
	PayerMessage string `json:"payerMessage"`
	PayeeNote    string `json:"payeeNote"`
}

func (b *paymentRequestBody) toDomain() *domain.PaymentRequest {
	partyID := b.PartyID
	if partyID == "" {
		partyID = b.PayerMobile
	}
	if partyID == "" {
		partyID = b.PayeeMobile
	}
	return &domain.PaymentRequest{
		Amount:       b.Amount,
		Currency:     b.Currency,
		ExternalID:   b.ExternalID,
		PartyID:      partyID,
		PayerMessage: b.PayerMessage,
		PayeeNote:    b.PayeeNote,
	}
}

// HandleRequestPayment initiates a collection (request-to-pay).
func (h *PaymentHandler) HandleRequestPayment(w http.ResponseWriter, r *http.Request) {
	h.handleInitiate(w, r, domain.ProductCollection)
}

// HandleTransfer initiates a disbursement.
func (h *PaymentHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	h.handleInitiate(w, r, domain.ProductDisbursement)
}

func (h *PaymentHandler) handleInitiate(w http.ResponseWriter, r *http.Request, product domain.Product) {
	ctx := r.Context()

	var body paymentRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("failed to decode payment request", zap.Error(err))
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := body.toDomain()

	var (
		result *domain.PaymentResult
		err    error
	)
	if product == domain.ProductDisbursement {
		result, err = h.paymentUC.Transfer(ctx, req)
	} else {
		result, err = h.paymentUC.RequestToPay(ctx, req)
	}
	if err != nil {
		h.writeTaggedError(w, err)
		return
	}

	h.sendSuccess(w, http.StatusAccepted, result)
}

// HandleTransactionStatus passes through the provider's view of a
// transaction. The product query parameter selects collection (default) or
// disbursement.
func (h *PaymentHandler) HandleTransactionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := domain.ParseProduct(r.URL.Query().Get("product"))
	if err != nil {
		h.writeTaggedError(w, err)
		return
	}

	externalID := chi.URLParam(r, "externalId")

	resp, err := h.paymentUC.TransactionStatus(ctx, product, externalID)
	if err != nil {
		h.writeTaggedError(w, err)
		return
	}

	h.writePassthrough(w, resp)
}

// HandleAccountBalance passes through the collection account balance.
func (h *PaymentHandler) HandleAccountBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.paymentUC.AccountBalance(r.Context())
	if err != nil {
		h.writeTaggedError(w, err)
		return
	}

	h.writePassthrough(w, resp)
}

// writeTaggedError translates the gateway error taxonomy into HTTP responses:
// validation 400, auth 502, timeout 504, provider errors pass the provider's
// own status and body through, everything else 500.
func (h *PaymentHandler) writeTaggedError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		authErr       *domain.AuthError
		timeoutErr    *domain.TimeoutError
		providerErr   *domain.ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		h.sendError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &authErr):
		h.sendError(w, http.StatusBadGateway, "failed to obtain provider access token")
	case errors.As(err, &timeoutErr):
		h.sendError(w, http.StatusGatewayTimeout, "provider call timed out")
	case errors.As(err, &providerErr):
		if providerErr.Err != nil {
			// 2xx from the provider with an unusable body; forwarding the
			// original status would misreport success.
			h.sendError(w, http.StatusBadGateway, "provider returned malformed response")
			return
		}
		if len(providerErr.Body) > 0 && json.Valid(providerErr.Body) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(providerErr.Status)
			w.Write(providerErr.Body)
			return
		}
		h.sendError(w, providerErr.Status, "provider rejected request")
	default:
		h.logger.Error("unclassified gateway error", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *PaymentHandler) writePassthrough(w http.ResponseWriter, resp *domain.ProviderResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.HTTPStatus)
	w.Write(resp.Body)
}

func (h *PaymentHandler) sendSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func (h *PaymentHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
