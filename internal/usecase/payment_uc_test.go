package usecase_test

import (
	"context"
	"testing"

	"momo-gateway/internal/domain"
	"momo-gateway/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	lastReq        *domain.PaymentRequest
	lastProduct    domain.Product
	lastExternalID string
	calls          int
	err            error
}

func (g *fakeGateway) RequestToPay(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	g.calls++
	g.lastReq = req
	g.lastProduct = domain.ProductCollection
	if g.err != nil {
		return nil, g.err
	}
	return &domain.PaymentResult{Status: domain.StatusInitiated, ExternalID: req.ExternalID}, nil
}

func (g *fakeGateway) Transfer(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	g.calls++
	g.lastReq = req
	g.lastProduct = domain.ProductDisbursement
	if g.err != nil {
		return nil, g.err
	}
	return &domain.PaymentResult{Status: domain.StatusInitiated, ExternalID: req.ExternalID}, nil
}

func (g *fakeGateway) TransactionStatus(ctx context.Context, product domain.Product, externalID string) (*domain.ProviderResponse, error) {
	g.calls++
	g.lastProduct = product
	g.lastExternalID = externalID
	if g.err != nil {
		return nil, g.err
	}
	return &domain.ProviderResponse{HTTPStatus: 200, Body: []byte(`{"status":"SUCCESSFUL"}`)}, nil
}

func (g *fakeGateway) AccountBalance(ctx context.Context) (*domain.ProviderResponse, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &domain.ProviderResponse{HTTPStatus: 200, Body: []byte(`{"availableBalance":"0"}`)}, nil
}

func TestRequestToPay_GeneratesExternalID(t *testing.T) {
	gw := &fakeGateway{}
	uc := usecase.NewPaymentUsecase(gw, zap.NewNop())

	result, err := uc.RequestToPay(context.Background(), &domain.PaymentRequest{
		Amount:   "500",
		Currency: "EUR",
		PartyID:  "233501234567",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusInitiated, result.Status)

	_, err = uuid.Parse(result.ExternalID)
	require.NoError(t, err, "generated externalId must be a valid v4 uuid")
	require.Equal(t, result.ExternalID, gw.lastReq.ExternalID)
	require.Equal(t, domain.ProductCollection, gw.lastProduct)
}

func TestRequestToPay_ReusesSuppliedExternalID(t *testing.T) {
	gw := &fakeGateway{}
	uc := usecase.NewPaymentUsecase(gw, zap.NewNop())

	result, err := uc.RequestToPay(context.Background(), &domain.PaymentRequest{
		Amount:     "500",
		Currency:   "EUR",
		PartyID:    "233501234567",
		ExternalID: "retry-key-1",
	})
	require.NoError(t, err)
	require.Equal(t, "retry-key-1", result.ExternalID, "supplied externalId is the retry/idempotency key")
}

func TestRequestToPay_ValidationStopsBeforeGateway(t *testing.T) {
	cases := []struct {
		name  string
		req   domain.PaymentRequest
		field string
	}{
		{"missing amount", domain.PaymentRequest{Currency: "EUR", PartyID: "233501234567"}, "amount"},
		{"missing currency", domain.PaymentRequest{Amount: "500", PartyID: "233501234567"}, "currency"},
		{"missing partyId", domain.PaymentRequest{Amount: "500", Currency: "EUR"}, "partyId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			uc := usecase.NewPaymentUsecase(gw, zap.NewNop())

			_, err := uc.RequestToPay(context.Background(), &tc.req)

			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.field, validationErr.Field)
			require.Zero(t, gw.calls, "invalid requests must not reach the provider")
		})
	}
}

func TestTransfer_UsesDisbursement(t *testing.T) {
	gw := &fakeGateway{}
	uc := usecase.NewPaymentUsecase(gw, zap.NewNop())

	_, err := uc.Transfer(context.Background(), &domain.PaymentRequest{
		Amount:   "75",
		Currency: "UGX",
		PartyID:  "256771234567",
	})
	require.NoError(t, err)
	require.Equal(t, domain.ProductDisbursement, gw.lastProduct)
}

func TestTransactionStatus_RequiresExternalID(t *testing.T) {
	gw := &fakeGateway{}
	uc := usecase.NewPaymentUsecase(gw, zap.NewNop())

	_, err := uc.TransactionStatus(context.Background(), domain.ProductCollection, "")

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Zero(t, gw.calls)
}

func TestTransactionStatus_PassThrough(t *testing.T) {
	gw := &fakeGateway{}
	uc := usecase.NewPaymentUsecase(gw, zap.NewNop())

	resp, err := uc.TransactionStatus(context.Background(), domain.ProductDisbursement, "ext-9")
	require.NoError(t, err)
	require.Equal(t, 200, resp.HTTPStatus)
	require.Equal(t, domain.ProductDisbursement, gw.lastProduct)
	require.Equal(t, "ext-9", gw.lastExternalID)
}
