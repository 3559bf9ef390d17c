package edit

import (
	"github.com/jafarshop/productconsole/internal/domain"
)

// Assemble derives the commit payload from the session's current state.
// Metafield identity (namespace, key, type) always comes from the loaded rows.
// An empty productID falls back to the id of the loaded product.
func Assemble(s *EditSession, productID string) domain.CommitPayload {
	pid := Canonicalize(productID)
	if s == nil {
		return domain.CommitPayload{
			ProductID:  pid,
			Tags:       []string{},
			Metafields: []domain.CommitMetafield{},
		}
	}
	if pid == "" {
		pid = s.productID
	}

	metafields := make([]domain.CommitMetafield, len(s.rows))
	for i, r := range s.rows {
		metafields[i] = domain.CommitMetafield{
			Namespace: r.Namespace,
			Key:       r.Key,
			Type:      r.Type,
			Value:     s.values[i],
		}
	}

	return domain.CommitPayload{
		ProductID:       pid,
		Title:           s.summary.Title,
		Vendor:          s.summary.Vendor,
		ProductType:     s.summary.ProductType,
		Tags:            append([]string{}, s.summary.Tags...),
		DescriptionHTML: s.summary.DescriptionHTML,
		Metafields:      metafields,
	}
}
