package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawProductRecord is a fetched product after ingestion. Every field is typed;
// missing structure shows up as zero values, never as an error.
type RawProductRecord struct {
	Summary    *RawSummary // nil when the source had no summary section
	Metafields []RawMetafield
	Variants   []Variant
	Images     []Image
	TagOptions []string // server-declared known tag options, may be empty
}

// RawSummary holds the scalar attributes of a product as received
type RawSummary struct {
	ID              string
	Title           string
	Handle          string
	Status          string
	Vendor          string
	ProductType     string
	Tags            []string
	DescriptionHTML string
	CreatedAt       string
	UpdatedAt       string
	FeaturedImage   *Image
	TagsTitle       string
	CategoryID      string
}

// RawMetafield is one metafield entry in source order
type RawMetafield struct {
	ID        string
	Namespace string
	Key       string
	Type      string
	Value     string
}

// Variant is a read-only variant row shown next to the editable fields
type Variant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Barcode           string `json:"barcode"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
	Tracked           bool   `json:"tracked"`
}

// Image is a product media descriptor
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// ValidationIssue is one issue as delivered by the validator
type ValidationIssue struct {
	FieldPath string `json:"fieldPath"`
	Message   string `json:"message"`
	Level     string `json:"level,omitempty"`
}

// ValidationResult is the data part of a successful validate call
type ValidationResult struct {
	Pass   bool              `json:"pass"`
	Total  int               `json:"total,omitempty"`
	Failed int               `json:"failed"`
	Issues []ValidationIssue `json:"issues"`
}

// CommitMetafield is a metafield entry of a commit payload
type CommitMetafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// CommitPayload is the wire payload for validate and commit requests
type CommitPayload struct {
	ProductID       string            `json:"productId"`
	Title           string            `json:"title"`
	Vendor          string            `json:"vendor"`
	ProductType     string            `json:"productType"`
	Tags            []string          `json:"tags"`
	DescriptionHTML string            `json:"descriptionHtml"`
	Metafields      []CommitMetafield `json:"metafields"`
}

// AsProductData returns the payload as the loosely typed object the validator
// expects. accountID is included when non-zero.
func (p CommitPayload) AsProductData(accountID int64) map[string]interface{} {
	tags := make([]interface{}, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t
	}
	metafields := make([]interface{}, len(p.Metafields))
	for i, m := range p.Metafields {
		metafields[i] = map[string]interface{}{
			"namespace": m.Namespace,
			"key":       m.Key,
			"type":      m.Type,
			"value":     m.Value,
		}
	}
	data := map[string]interface{}{
		"productId":       p.ProductID,
		"title":           p.Title,
		"vendor":          p.Vendor,
		"productType":     p.ProductType,
		"tags":            tags,
		"descriptionHtml": p.DescriptionHTML,
		"metafields":      metafields,
	}
	if accountID != 0 {
		data["accountId"] = accountID
	}
	return data
}

// Account is a configured catalog account
type Account struct {
	ID         int64  `json:"id"`
	Name       string `json:"name,omitempty"`
	ShopDomain string `json:"shopDomain,omitempty"`
	IsDefault  bool   `json:"isDefault"`
}

// CommitRecord is a journal entry for one commit attempt
type CommitRecord struct {
	ID          uuid.UUID    `json:"id"`
	AccountID   int64        `json:"accountId"`
	ProductID   string       `json:"productId"`
	Title       string       `json:"title"`
	PayloadJSON string       `json:"payloadJson"`
	Status      CommitStatus `json:"status"`
	Message     string       `json:"message"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// CommitRecordFilter narrows a journal listing. Zero values mean "any".
type CommitRecordFilter struct {
	AccountID int64
	ID        *uuid.UUID
	Title     string
	Page      int
	Size      int
}

// SearchState is the last product search of a console user
type SearchState struct {
	ProductID string    `json:"productId"`
	Title     string    `json:"title,omitempty"`
	AccountID int64     `json:"accountId,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
