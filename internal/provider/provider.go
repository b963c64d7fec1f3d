package provider

import (
	"context"

	"momo-gateway/internal/domain"
)

// Gateway is the surface the HTTP layer composes against. *momo.Client is the
// production implementation; tests substitute fakes.
type Gateway interface {
	// RequestToPay pulls money from a payer over the collection product.
	RequestToPay(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error)

	// Transfer pushes money to a payee over the disbursement product.
	Transfer(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentResult, error)

	// TransactionStatus passes through the provider's view of a transaction.
	TransactionStatus(ctx context.Context, product domain.Product, externalID string) (*domain.ProviderResponse, error)

	// AccountBalance passes through the collection account balance.
	AccountBalance(ctx context.Context) (*domain.ProviderResponse, error)
}
