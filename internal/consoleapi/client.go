package consoleapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/edit"
	pkgerrors "github.com/jafarshop/productconsole/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Operation names carried by transport errors
const (
	OpFetch    = "fetch product"
	OpValidate = "validate product"
	OpCommit   = "commit product"
	OpAccounts = "list accounts"
)

// Client calls the catalog backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a catalog backend HTTP client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// envelope is the response shape of every backend endpoint
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data"`
}

type fetchRequest struct {
	AccountID int64  `json:"accountId"`
	ProductID string `json:"productId"`
}

type validateRequest struct {
	ProductData map[string]interface{} `json:"productData"`
}

type commitRequest struct {
	AccountID     int64                  `json:"accountId"`
	ProductID     string                 `json:"productId"`
	UpdatePayload map[string]interface{} `json:"updatePayload"`
}

type accountResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	ShopDomain string `json:"shopDomain"`
	IsDefault  bool   `json:"isDefault"`
}

// FetchProduct loads a product by id for the given account
func (c *Client) FetchProduct(ctx context.Context, accountID int64, productID string) (domain.RawProductRecord, error) {
	body := fetchRequest{AccountID: accountID, ProductID: productID}
	data, err := c.do(ctx, OpFetch, http.MethodPost, "/api/v1/shopify/fetch-by-product-id", body)
	if err != nil {
		return domain.RawProductRecord{}, err
	}

	var payload interface{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return domain.RawProductRecord{}, &pkgerrors.ErrTransport{Op: OpFetch, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	if payload == nil {
		return domain.RawProductRecord{}, &pkgerrors.ErrNotFound{Resource: "product", ID: productID}
	}
	rec, err := edit.DecodeRecord(payload)
	if err != nil {
		return domain.RawProductRecord{}, &pkgerrors.ErrTransport{Op: OpFetch, Err: err}
	}
	return rec, nil
}

// ValidateProduct runs the backend validator on productData
func (c *Client) ValidateProduct(ctx context.Context, productData map[string]interface{}) (domain.ValidationResult, error) {
	data, err := c.do(ctx, OpValidate, http.MethodPost, "/api/v1/validation/run", validateRequest{ProductData: productData})
	if err != nil {
		return domain.ValidationResult{}, err
	}

	var result domain.ValidationResult
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &result); err != nil {
			return domain.ValidationResult{}, &pkgerrors.ErrTransport{Op: OpValidate, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return result, nil
}

// CommitProduct sends the update payload for productID to the backend
func (c *Client) CommitProduct(ctx context.Context, accountID int64, productID string, payload domain.CommitPayload) error {
	body := commitRequest{
		AccountID:     accountID,
		ProductID:     productID,
		UpdatePayload: payload.AsProductData(0),
	}
	_, err := c.do(ctx, OpCommit, http.MethodPost, "/api/v1/commit", body)
	return err
}

// ListAccounts returns the configured catalog accounts
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	data, err := c.do(ctx, OpAccounts, http.MethodGet, "/api/v1/accounts", nil)
	if err != nil {
		return nil, err
	}

	var rows []accountResponse
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, &pkgerrors.ErrTransport{Op: OpAccounts, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	accounts := make([]domain.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, domain.Account{
			ID:         r.ID,
			Name:       r.Email,
			ShopDomain: r.ShopDomain,
			IsDefault:  r.IsDefault,
		})
	}
	return accounts, nil
}

// do performs one request and unwraps the response envelope, returning its data
func (c *Client) do(ctx context.Context, op, method, path string, body interface{}) ([]byte, error) {
	if c.baseURL == "" {
		return nil, &pkgerrors.ErrTransport{Op: op, Err: fmt.Errorf("catalog client not configured: base URL required")}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &pkgerrors.ErrTransport{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Catalog backend request failed", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return nil, &pkgerrors.ErrTransport{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrors.ErrTransport{Op: op, Status: resp.StatusCode, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if decodeErr == nil {
			msg = env.Message
		}
		c.logger.Warn("Catalog backend returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return nil, &pkgerrors.ErrTransport{Op: op, Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &pkgerrors.ErrTransport{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", decodeErr)}
	}
	if !env.Success {
		c.logger.Info("Catalog backend rejected request", zap.String("op", op), zap.String("message", env.Message))
		return nil, &pkgerrors.ErrTransport{Op: op, Status: resp.StatusCode, Message: env.Message}
	}
	return env.Data, nil
}
