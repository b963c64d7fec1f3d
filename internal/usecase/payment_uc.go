package usecase

import (
	"context"

	"momo-gateway/internal/domain"
	"momo-gateway/internal/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentUsecase struct {
	gateway provider.Gateway
	logger  *zap.Logger
}

func NewPaymentUsecase(gateway provider.Gateway, logger *zap.Logger) *PaymentUsecase {
	return &PaymentUsecase{
		gateway: gateway,
		logger:  logger,
	}
}

// RequestToPay validates the request, assigns an externalId when the caller
// did not supply one, and initiates a collection through the gateway.
//
// Callers that want safe retries must reuse the same externalId across
// attempts; the provider deduplicates on X-Reference-Id, the gateway does not.
func (uc *PaymentUsecase) RequestToPay(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	return uc.initiate(ctx, domain.ProductCollection, req)
}

// Transfer is RequestToPay's disbursement twin.
func (uc *PaymentUsecase) Transfer(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	return uc.initiate(ctx, domain.ProductDisbursement, req)
}

func (uc *PaymentUsecase) initiate(ctx context.Context, product domain.Product, req *domain.PaymentRequest) (*domain.PaymentResult, error) {
	if err := req.Validate(); err != nil {
		uc.logger.Warn("payment request rejected",
			zap.String("product", string(product)),
			zap.Error(err))
		return nil, err
	}

	if req.ExternalID == "" {
		req.ExternalID = uuid.NewString()
	}

	uc.logger.Info("initiating payment",
		zap.String("product", string(product)),
		zap.String("external_id", req.ExternalID),
		zap.String("amount", req.Amount),
		zap.String("currency", req.Currency))

	var (
		result *domain.PaymentResult
		err    error
	)
	if product == domain.ProductDisbursement {
		result, err = uc.gateway.Transfer(ctx, req)
	} else {
		result, err = uc.gateway.RequestToPay(ctx, req)
	}
	if err != nil {
		uc.logger.Error("payment initiation failed",
			zap.String("product", string(product)),
			zap.String("external_id", req.ExternalID),
			zap.Error(err))
		return nil, err
	}

	return result, nil
}

// TransactionStatus looks up a transaction on the selected product.
func (uc *PaymentUsecase) TransactionStatus(ctx context.Context, product domain.Product, externalID string) (*domain.ProviderResponse, error) {
	if externalID == "" {
		return nil, &domain.ValidationError{Field: "externalId", Reason: "is required"}
	}

	resp, err := uc.gateway.TransactionStatus(ctx, product, externalID)
	if err != nil {
		uc.logger.Error("status query failed",
			zap.String("product", string(product)),
			zap.String("external_id", externalID),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// AccountBalance fetches the collection account balance.
func (uc *PaymentUsecase) AccountBalance(ctx context.Context) (*domain.ProviderResponse, error) {
	resp, err := uc.gateway.AccountBalance(ctx)
	if err != nil {
		uc.logger.Error("balance query failed", zap.Error(err))
		return nil, err
	}
	return resp, nil
}
