package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/config"
	"github.com/jafarshop/productconsole/internal/consoleapi"
	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/workflow"
)

// CatalogGateway routes each catalog concern to the adapter that serves it.
// Validation always runs on the console backend.
type CatalogGateway struct {
	fetcher   workflow.ProductFetcher
	validator workflow.ProductValidator
	committer workflow.ProductCommitter
	accounts  workflow.AccountLister
	logger    *zap.Logger
}

// NewCatalogGateway builds the gateway for the configured catalog mode
func NewCatalogGateway(cfg *config.Config, logger *zap.Logger) (*CatalogGateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend := consoleapi.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, logger)

	switch cfg.Catalog.Mode {
	case config.CatalogModeBackend:
		logger.Info("Catalog gateway using console backend", zap.String("base_url", cfg.Catalog.BaseURL))
		return ComposeCatalog(backend, backend, backend, backend, logger), nil
	case config.CatalogModeShopify:
		shop := NewShopifyService(cfg.Shopify, logger)
		logger.Info("Catalog gateway using Shopify directly",
			zap.String("shop", cfg.Shopify.ShopDomain),
			zap.String("validator", cfg.Catalog.BaseURL),
		)
		return ComposeCatalog(shop, backend, shop, shop, logger), nil
	default:
		return nil, fmt.Errorf("unknown catalog mode %q", cfg.Catalog.Mode)
	}
}

// ComposeCatalog assembles a gateway from individual adapters
func ComposeCatalog(
	fetcher workflow.ProductFetcher,
	validator workflow.ProductValidator,
	committer workflow.ProductCommitter,
	accounts workflow.AccountLister,
	logger *zap.Logger,
) *CatalogGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogGateway{
		fetcher:   fetcher,
		validator: validator,
		committer: committer,
		accounts:  accounts,
		logger:    logger,
	}
}

func (g *CatalogGateway) FetchProduct(ctx context.Context, accountID int64, productID string) (domain.RawProductRecord, error) {
	g.logger.Debug("Fetching product", zap.Int64("account_id", accountID), zap.String("product_id", productID))
	return g.fetcher.FetchProduct(ctx, accountID, productID)
}

func (g *CatalogGateway) ValidateProduct(ctx context.Context, productData map[string]interface{}) (domain.ValidationResult, error) {
	return g.validator.ValidateProduct(ctx, productData)
}

func (g *CatalogGateway) CommitProduct(ctx context.Context, accountID int64, productID string, payload domain.CommitPayload) error {
	g.logger.Debug("Committing product", zap.Int64("account_id", accountID), zap.String("product_id", productID))
	return g.committer.CommitProduct(ctx, accountID, productID, payload)
}

func (g *CatalogGateway) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return g.accounts.ListAccounts(ctx)
}

var _ workflow.Catalog = (*CatalogGateway)(nil)
