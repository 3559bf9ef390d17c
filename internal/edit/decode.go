package edit

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/jafarshop/productconsole/internal/domain"
)

// Loose shapes of the fetch payload. Scalars stay interface{} so that numbers,
// strings and nulls all decode; they are coerced by Stringify afterwards.
type looseSummary struct {
	ID              interface{}            `mapstructure:"id"`
	Title           interface{}            `mapstructure:"title"`
	Handle          interface{}            `mapstructure:"handle"`
	Status          interface{}            `mapstructure:"status"`
	Vendor          interface{}            `mapstructure:"vendor"`
	ProductType     interface{}            `mapstructure:"productType"`
	Tags            interface{}            `mapstructure:"tags"`
	DescriptionHTML interface{}            `mapstructure:"descriptionHtml"`
	CreatedAt       interface{}            `mapstructure:"createdAt"`
	UpdatedAt       interface{}            `mapstructure:"updatedAt"`
	FeaturedImage   map[string]interface{} `mapstructure:"featuredImage"`
	TagsTitle       interface{}            `mapstructure:"tagsTitle"`
	CategoryID      interface{}            `mapstructure:"categoryId"`
}

type looseMetafield struct {
	ID        interface{} `mapstructure:"id"`
	Namespace interface{} `mapstructure:"namespace"`
	Key       interface{} `mapstructure:"key"`
	Type      interface{} `mapstructure:"type"`
	Value     interface{} `mapstructure:"value"`
}

type looseVariant struct {
	ID                interface{} `mapstructure:"id"`
	Title             interface{} `mapstructure:"title"`
	SKU               interface{} `mapstructure:"sku"`
	Barcode           interface{} `mapstructure:"barcode"`
	Price             interface{} `mapstructure:"price"`
	InventoryQuantity int         `mapstructure:"inventoryQuantity"`
	InventoryItem     struct {
		Tracked bool `mapstructure:"tracked"`
	} `mapstructure:"inventoryItem"`
}

type looseImage struct {
	URL     interface{} `mapstructure:"url"`
	AltText interface{} `mapstructure:"altText"`
	Width   int         `mapstructure:"width"`
	Height  int         `mapstructure:"height"`
}

// summaryKeys are the top-level keys that mark a bare Shopify product node.
var summaryKeys = []string{"id", "title", "handle", "vendor", "productType", "tags"}

// DecodeRecord converts a fetch payload of any supported shape into a
// RawProductRecord. Accepted shapes:
//
//	{"view": {"summary": {...}, "metafields": [...], ...}, "raw": {...}}
//	{"summary": {...}, "metafields": [...]}
//	{"data": {"product": {...}}}        (Admin GraphQL response)
//	{"id": ..., "title": ..., "metafields": {"edges": [...]}} (product node)
//
// Malformed sub-structures decode to zero values. The only error is a payload
// that is not a JSON object.
func DecodeRecord(payload interface{}) (domain.RawProductRecord, error) {
	var rec domain.RawProductRecord

	root, err := asObject(payload)
	if err != nil {
		return rec, err
	}
	if root == nil {
		return rec, nil
	}

	view := root
	if v, ok := root["view"].(map[string]interface{}); ok {
		view = v
	} else if data, ok := root["data"].(map[string]interface{}); ok {
		if product, ok := data["product"].(map[string]interface{}); ok {
			view = productNodeToView(product)
		}
	} else if _, ok := root["summary"]; !ok && hasAnyKey(root, summaryKeys) {
		view = productNodeToView(root)
	}

	if s, ok := view["summary"].(map[string]interface{}); ok {
		rec.Summary = decodeSummary(s)
	}
	for _, node := range nodeList(view["metafields"]) {
		rec.Metafields = append(rec.Metafields, decodeMetafield(node))
	}
	for _, node := range nodeList(view["variants"]) {
		rec.Variants = append(rec.Variants, decodeVariant(node))
	}
	for _, node := range nodeList(view["images"]) {
		rec.Images = append(rec.Images, decodeImage(node))
	}

	options := view["tagOptions"]
	if options == nil {
		options = root["tagOptions"]
	}
	rec.TagOptions = ParseTags(options)

	return rec, nil
}

func asObject(payload interface{}) (map[string]interface{}, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return p, nil
	case []byte:
		if len(p) == 0 {
			return nil, nil
		}
		var out interface{}
		if err := json.Unmarshal(p, &out); err != nil {
			return nil, fmt.Errorf("failed to parse product payload: %w", err)
		}
		return asObject(out)
	default:
		return nil, fmt.Errorf("product payload is %T, expected an object", payload)
	}
}

// productNodeToView reshapes an Admin API product node into the view layout.
func productNodeToView(product map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"summary":    product,
		"metafields": product["metafields"],
		"variants":   product["variants"],
		"images":     product["images"],
	}
}

// nodeList flattens the list forms the catalog uses: a plain list, a
// connection with edges[].node, or a connection with nodes[].
func nodeList(v interface{}) []map[string]interface{} {
	var items []interface{}
	switch t := v.(type) {
	case []interface{}:
		items = t
	case []map[string]interface{}:
		return t
	case map[string]interface{}:
		if edges, ok := t["edges"].([]interface{}); ok {
			for _, e := range edges {
				if edge, ok := e.(map[string]interface{}); ok {
					items = append(items, edge["node"])
				}
			}
		} else if nodes, ok := t["nodes"].([]interface{}); ok {
			items = nodes
		}
	}

	out := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]interface{}); ok {
			out = append(out, m)
		} else {
			// keep the position so metafield indexes stay aligned
			out = append(out, map[string]interface{}{})
		}
	}
	return out
}

func hasAnyKey(m map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// weakDecode decodes best-effort; fields that fail to convert keep their zero
// value.
func weakDecode(input interface{}, out interface{}) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(input)
}

func decodeSummary(m map[string]interface{}) *domain.RawSummary {
	var l looseSummary
	weakDecode(m, &l)

	s := &domain.RawSummary{
		ID:              Stringify(l.ID),
		Title:           Stringify(l.Title),
		Handle:          Stringify(l.Handle),
		Status:          Stringify(l.Status),
		Vendor:          Stringify(l.Vendor),
		ProductType:     Stringify(l.ProductType),
		Tags:            ParseTags(l.Tags),
		DescriptionHTML: Stringify(l.DescriptionHTML),
		CreatedAt:       Stringify(l.CreatedAt),
		UpdatedAt:       Stringify(l.UpdatedAt),
		TagsTitle:       Stringify(l.TagsTitle),
		CategoryID:      Stringify(l.CategoryID),
	}
	if l.FeaturedImage != nil {
		img := decodeImage(l.FeaturedImage)
		s.FeaturedImage = &img
	}
	return s
}

func decodeMetafield(m map[string]interface{}) domain.RawMetafield {
	var l looseMetafield
	weakDecode(m, &l)
	return domain.RawMetafield{
		ID:        Stringify(l.ID),
		Namespace: Stringify(l.Namespace),
		Key:       Stringify(l.Key),
		Type:      Stringify(l.Type),
		Value:     Stringify(l.Value),
	}
}

func decodeVariant(m map[string]interface{}) domain.Variant {
	var l looseVariant
	weakDecode(m, &l)
	return domain.Variant{
		ID:                Canonicalize(l.ID),
		Title:             Stringify(l.Title),
		SKU:               Stringify(l.SKU),
		Barcode:           Stringify(l.Barcode),
		Price:             Stringify(l.Price),
		InventoryQuantity: l.InventoryQuantity,
		Tracked:           l.InventoryItem.Tracked,
	}
}

func decodeImage(m map[string]interface{}) domain.Image {
	var l looseImage
	weakDecode(m, &l)
	return domain.Image{
		URL:     Stringify(l.URL),
		AltText: Stringify(l.AltText),
		Width:   l.Width,
		Height:  l.Height,
	}
}
