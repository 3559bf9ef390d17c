package shopify

// ProductUpdateMutation updates the scalar attributes and tags of a product
const ProductUpdateMutation = `
mutation productUpdate($product: ProductUpdateInput!) {
  productUpdate(product: $product) {
    product {
      id
      title
    }
    userErrors {
      field
      message
    }
  }
}
`

// MetafieldsSetMutation sets metafields on a resource (the product being committed)
const MetafieldsSetMutation = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
  metafieldsSet(metafields: $metafields) {
    metafields {
      key
      namespace
      value
    }
    userErrors {
      field
      message
      code
    }
  }
}
`

// ProductUpdateInput represents the input for productUpdate
type ProductUpdateInput struct {
	ID              string   `json:"id"`
	Title           string   `json:"title,omitempty"`
	Vendor          string   `json:"vendor,omitempty"`
	ProductType     string   `json:"productType,omitempty"`
	Tags            []string `json:"tags"`
	DescriptionHTML string   `json:"descriptionHtml,omitempty"`
}

// MetafieldsSetInput represents one metafield for metafieldsSet
type MetafieldsSetInput struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// UserError is a mutation-level error reported by the Admin API
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}
