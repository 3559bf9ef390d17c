package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/config"
	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/edit"
	"github.com/jafarshop/productconsole/internal/shopify"
	"github.com/jafarshop/productconsole/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ShopifyAccountID is the id of the single account exposed in direct mode
const ShopifyAccountID int64 = 1

// ShopifyService reads and writes products directly through the Admin GraphQL API
type ShopifyService struct {
	client *shopify.Client
	logger *zap.Logger
}

// NewShopifyService creates a new Shopify product service
func NewShopifyService(cfg config.ShopifyConfig, logger *zap.Logger) *ShopifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewShopifyServiceWithClient(shopify.NewClient(cfg, logger), logger)
}

// NewShopifyServiceWithClient wraps an existing client
func NewShopifyServiceWithClient(client *shopify.Client, logger *zap.Logger) *ShopifyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopifyService{client: client, logger: logger}
}

type collectionNode struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	RuleSet *struct {
		Rules []struct {
			Column    string `json:"column"`
			Relation  string `json:"relation"`
			Condition string `json:"condition"`
		} `json:"rules"`
	} `json:"ruleSet"`
}

type productCollections struct {
	Product *struct {
		Tags        []string `json:"tags"`
		Collections struct {
			Edges []struct {
				Node collectionNode `json:"node"`
			} `json:"edges"`
		} `json:"collections"`
	} `json:"product"`
}

// FetchProduct loads one product. accountID is ignored in direct mode.
func (s *ShopifyService) FetchProduct(ctx context.Context, accountID int64, productID string) (domain.RawProductRecord, error) {
	gid := edit.ProductGID(productID)
	resp, err := s.client.Execute(ctx, shopify.ProductByIDQuery, map[string]interface{}{"id": gid})
	if err != nil {
		return domain.RawProductRecord{}, transportError("fetch product", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return domain.RawProductRecord{}, transportError("fetch product", fmt.Errorf("failed to parse product response: %w", err))
	}
	product, ok := data["product"].(map[string]interface{})
	if !ok {
		return domain.RawProductRecord{}, &errors.ErrNotFound{Resource: "product", ID: gid}
	}

	var typed productCollections
	if err := json.Unmarshal(resp.Data, &typed); err == nil && typed.Product != nil {
		var nodes []collectionNode
		for _, e := range typed.Product.Collections.Edges {
			nodes = append(nodes, e.Node)
		}
		title, categoryID := tagCollections(typed.Product.Tags, nodes)
		product["tagsTitle"] = title
		if categoryID > 0 {
			product["categoryId"] = categoryID
		}
	}

	rec, err := edit.DecodeRecord(map[string]interface{}{"data": map[string]interface{}{"product": product}})
	if err != nil {
		return domain.RawProductRecord{}, transportError("fetch product", err)
	}

	s.logger.Info("Fetched product from Shopify",
		zap.String("product_id", gid),
		zap.Int("metafields", len(rec.Metafields)),
		zap.Int("variants", len(rec.Variants)),
	)
	return rec, nil
}

// tagCollections returns the titles of smart collections whose TAG EQUALS
// rule matches one of tags (joined with ", ") and the numeric id of the first
// matching collection.
func tagCollections(tags []string, collections []collectionNode) (string, int64) {
	if len(tags) == 0 {
		return "", 0
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			set[strings.ToLower(t)] = true
		}
	}

	var titles []string
	seen := make(map[string]bool)
	var categoryID int64
	for _, c := range collections {
		if c.RuleSet == nil {
			continue
		}
		matched := false
		for _, r := range c.RuleSet.Rules {
			cond := strings.TrimSpace(r.Condition)
			if strings.EqualFold(r.Column, "TAG") && strings.EqualFold(r.Relation, "EQUALS") &&
				cond != "" && set[strings.ToLower(cond)] {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if title := strings.TrimSpace(c.Title); title != "" && !seen[title] {
			seen[title] = true
			titles = append(titles, title)
		}
		if categoryID == 0 {
			if id, err := extractIDFromGID(c.ID); err == nil {
				categoryID = id
			}
		}
	}
	return strings.Join(titles, ", "), categoryID
}

// CommitProduct writes the payload with productUpdate, then metafieldsSet
func (s *ShopifyService) CommitProduct(ctx context.Context, accountID int64, productID string, payload domain.CommitPayload) error {
	gid := edit.ProductGID(productID)

	tags := make([]string, 0, len(payload.Tags))
	for _, t := range payload.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	input := shopify.ProductUpdateInput{
		ID:              gid,
		Title:           payload.Title,
		Vendor:          payload.Vendor,
		ProductType:     payload.ProductType,
		Tags:            tags,
		DescriptionHTML: payload.DescriptionHTML,
	}

	resp, err := s.client.Execute(ctx, shopify.ProductUpdateMutation, map[string]interface{}{"product": input})
	if err != nil {
		return transportError("commit product", err)
	}
	var updateResult struct {
		ProductUpdate struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"productUpdate"`
	}
	if err := json.Unmarshal(resp.Data, &updateResult); err != nil {
		return transportError("commit product", fmt.Errorf("failed to parse productUpdate response: %w", err))
	}
	if msg := formatUserErrors(updateResult.ProductUpdate.UserErrors); msg != "" {
		return &errors.ErrTransport{Op: "commit product", Message: "Shopify productUpdate failed: " + msg}
	}

	var metafields []shopify.MetafieldsSetInput
	for _, m := range payload.Metafields {
		ns, key, typ := strings.TrimSpace(m.Namespace), strings.TrimSpace(m.Key), strings.TrimSpace(m.Type)
		if ns == "" || key == "" || typ == "" {
			continue
		}
		if m.Value == "" {
			// metafieldsSet rejects blank values
			s.logger.Debug("Skipping blank metafield", zap.String("namespace", ns), zap.String("key", key))
			continue
		}
		metafields = append(metafields, shopify.MetafieldsSetInput{
			OwnerID:   gid,
			Namespace: ns,
			Key:       key,
			Type:      typ,
			Value:     m.Value,
		})
	}
	if len(metafields) == 0 {
		return nil
	}

	resp, err = s.client.Execute(ctx, shopify.MetafieldsSetMutation, map[string]interface{}{"metafields": metafields})
	if err != nil {
		return transportError("commit product", err)
	}
	var setResult struct {
		MetafieldsSet struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	if err := json.Unmarshal(resp.Data, &setResult); err != nil {
		return transportError("commit product", fmt.Errorf("failed to parse metafieldsSet response: %w", err))
	}
	if msg := formatUserErrors(setResult.MetafieldsSet.UserErrors); msg != "" {
		return &errors.ErrTransport{Op: "commit product", Message: "Shopify metafieldsSet failed: " + msg}
	}

	s.logger.Info("Committed product to Shopify", zap.String("product_id", gid), zap.Int("metafields", len(metafields)))
	return nil
}

// ListAccounts returns the configured shop as the single default account
func (s *ShopifyService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return []domain.Account{{
		ID:         ShopifyAccountID,
		Name:       s.client.ShopDomain(),
		ShopDomain: s.client.ShopDomain(),
		IsDefault:  true,
	}}, nil
}

// Ping checks the credentials by reading the shop name
func (s *ShopifyService) Ping(ctx context.Context) (string, error) {
	resp, err := s.client.Execute(ctx, shopify.ShopQuery, nil)
	if err != nil {
		return "", transportError("ping shop", err)
	}
	var result struct {
		Shop struct {
			Name string `json:"name"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return "", fmt.Errorf("failed to parse shop response: %w", err)
	}
	return result.Shop.Name, nil
}

// TagCollection is a smart collection driven by TAG EQUALS rules
type TagCollection struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Handle string   `json:"handle"`
	Tags   []string `json:"tags"`
}

const collectionsPageSize = 50

// ListTagCollections returns every collection that has at least one
// TAG EQUALS rule, in the order Shopify returns them.
func (s *ShopifyService) ListTagCollections(ctx context.Context) ([]TagCollection, error) {
	var out []TagCollection
	after := ""
	for {
		variables := map[string]interface{}{"first": collectionsPageSize}
		if after != "" {
			variables["after"] = after
		}
		resp, err := s.client.Execute(ctx, shopify.SmartCollectionsQuery, variables)
		if err != nil {
			return nil, transportError("list collections", err)
		}

		var result struct {
			Collections struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []struct {
					Node struct {
						collectionNode
						Handle string `json:"handle"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"collections"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return nil, fmt.Errorf("failed to parse collections response: %w", err)
		}

		for _, e := range result.Collections.Edges {
			tags := ruleTags(e.Node.collectionNode)
			if len(tags) == 0 {
				continue
			}
			id, _ := extractIDFromGID(e.Node.ID)
			out = append(out, TagCollection{ID: id, Title: e.Node.Title, Handle: e.Node.Handle, Tags: tags})
		}

		page := result.Collections.PageInfo
		if !page.HasNextPage || page.EndCursor == "" {
			break
		}
		after = page.EndCursor
	}

	s.logger.Debug("Listed tag collections", zap.Int("count", len(out)))
	return out, nil
}

func ruleTags(c collectionNode) []string {
	if c.RuleSet == nil {
		return nil
	}
	var tags []string
	for _, r := range c.RuleSet.Rules {
		cond := strings.TrimSpace(r.Condition)
		if strings.EqualFold(r.Column, "TAG") && strings.EqualFold(r.Relation, "EQUALS") && cond != "" {
			tags = append(tags, cond)
		}
	}
	return tags
}

// formatUserErrors renders userErrors as "field.path: message | ..."
func formatUserErrors(userErrors []shopify.UserError) string {
	parts := make([]string, 0, len(userErrors))
	for _, e := range userErrors {
		msg := strings.TrimSpace(e.Message)
		if msg == "" {
			msg = "Unknown error"
		}
		if field := strings.Join(e.Field, "."); field != "" {
			msg = field + ": " + msg
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, " | ")
}

func transportError(op string, err error) error {
	var statusErr *shopify.StatusError
	if stderrors.As(err, &statusErr) {
		return &errors.ErrTransport{Op: op, Status: statusErr.Status, Err: err}
	}
	return &errors.ErrTransport{Op: op, Err: err}
}

// extractIDFromGID extracts the numeric id from a GID (gid://shopify/Collection/123)
func extractIDFromGID(gid string) (int64, error) {
	parts := strings.Split(gid, "/")
	if len(parts) == 0 {
		return 0, fmt.Errorf("invalid GID format: %s", gid)
	}
	idStr := parts[len(parts)-1]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ID from GID %s: %w", gid, err)
	}
	return id, nil
}
