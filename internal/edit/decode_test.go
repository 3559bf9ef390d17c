package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viewPayload = `{
  "raw": {},
  "view": {
    "summary": {
      "id": "gid://shopify/Product/8112925769802",
      "title": "Dune",
      "vendor": null,
      "productType": 12,
      "tags": "red, blue, red",
      "featuredImage": {"url": "https://cdn/x.jpg", "width": "800", "height": 600}
    },
    "metafields": [
      {"id": "gid://shopify/Metafield/1", "namespace": "custom", "key": "isbn", "type": "single_line_text_field", "value": "978"},
      {"namespace": "custom", "key": "dims", "value": {"w": 1}},
      "garbage"
    ],
    "variants": [
      {"id": "gid://shopify/ProductVariant/9", "sku": "A-1", "price": "10.00", "inventoryQuantity": 3, "inventoryItem": {"tracked": true}}
    ],
    "tagOptions": ["blue", "green"]
  }
}`

func TestDecodeRecord(t *testing.T) {
	t.Run("view payload", func(t *testing.T) {
		rec, err := DecodeRecord([]byte(viewPayload))
		require.NoError(t, err)
		require.NotNil(t, rec.Summary)

		assert.Equal(t, "Dune", rec.Summary.Title)
		assert.Equal(t, "", rec.Summary.Vendor)
		assert.Equal(t, "12", rec.Summary.ProductType)
		assert.Equal(t, []string{"red", "blue"}, rec.Summary.Tags)
		require.NotNil(t, rec.Summary.FeaturedImage)
		assert.Equal(t, 800, rec.Summary.FeaturedImage.Width)

		require.Len(t, rec.Metafields, 3)
		assert.Equal(t, "isbn", rec.Metafields[0].Key)
		assert.Equal(t, `{"w":1}`, rec.Metafields[1].Value)
		assert.Equal(t, "", rec.Metafields[2].Key)

		require.Len(t, rec.Variants, 1)
		assert.Equal(t, "9", rec.Variants[0].ID)
		assert.True(t, rec.Variants[0].Tracked)

		assert.Equal(t, []string{"blue", "green"}, rec.TagOptions)
	})

	t.Run("scenario: comma tags resolve to a deduplicated list", func(t *testing.T) {
		rec, err := DecodeRecord([]byte(viewPayload))
		require.NoError(t, err)

		s := Build(rec)
		assert.Equal(t, []string{"red", "blue"}, s.Tags())
		assert.Equal(t, []string{"blue", "green", "red"}, s.TagOptions())
		assert.Equal(t, []string{"red", "blue"}, Assemble(s, "").Tags)
	})

	t.Run("graphql product node with edges", func(t *testing.T) {
		payload := map[string]interface{}{
			"data": map[string]interface{}{
				"product": map[string]interface{}{
					"id":    "gid://shopify/Product/5",
					"title": "T",
					"tags":  []interface{}{"x", "y"},
					"metafields": map[string]interface{}{
						"edges": []interface{}{
							map[string]interface{}{"node": map[string]interface{}{"namespace": "n", "key": "k", "type": "t", "value": "v"}},
						},
					},
					"images": map[string]interface{}{
						"nodes": []interface{}{map[string]interface{}{"url": "u", "width": 100.0, "height": 50.0}},
					},
				},
			},
		}

		rec, err := DecodeRecord(payload)
		require.NoError(t, err)
		require.NotNil(t, rec.Summary)
		assert.Equal(t, "gid://shopify/Product/5", rec.Summary.ID)
		assert.Equal(t, []string{"x", "y"}, rec.Summary.Tags)
		require.Len(t, rec.Metafields, 1)
		assert.Equal(t, "v", rec.Metafields[0].Value)
		require.Len(t, rec.Images, 1)
		assert.Equal(t, 100, rec.Images[0].Width)
	})

	t.Run("missing summary and metafields", func(t *testing.T) {
		rec, err := DecodeRecord(map[string]interface{}{"view": map[string]interface{}{}})
		require.NoError(t, err)
		assert.Nil(t, rec.Summary)
		assert.Empty(t, rec.Metafields)

		s := Build(rec)
		assert.Empty(t, s.Metafields())
	})

	t.Run("nil payload", func(t *testing.T) {
		rec, err := DecodeRecord(nil)
		require.NoError(t, err)
		assert.Nil(t, rec.Summary)
	})

	t.Run("non object payload", func(t *testing.T) {
		_, err := DecodeRecord([]byte(`[1,2]`))
		assert.Error(t, err)
		_, err = DecodeRecord([]byte(`{not json`))
		assert.Error(t, err)
	})
}
