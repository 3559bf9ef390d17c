package workflow

import (
	"context"

	"github.com/jafarshop/productconsole/internal/domain"
)

// ProductFetcher loads a product record from the catalog
type ProductFetcher interface {
	FetchProduct(ctx context.Context, accountID int64, productID string) (domain.RawProductRecord, error)
}

// ProductValidator runs the server-side validator on a product payload
type ProductValidator interface {
	ValidateProduct(ctx context.Context, productData map[string]interface{}) (domain.ValidationResult, error)
}

// ProductCommitter writes a product payload back to the catalog
type ProductCommitter interface {
	CommitProduct(ctx context.Context, accountID int64, productID string, payload domain.CommitPayload) error
}

// AccountLister lists the configured catalog accounts
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// Catalog bundles every collaborator the orchestrator needs
type Catalog interface {
	ProductFetcher
	ProductValidator
	ProductCommitter
	AccountLister
}
