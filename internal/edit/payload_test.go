package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/productconsole/internal/domain"
)

func TestAssemble(t *testing.T) {
	t.Run("uses current edit state", func(t *testing.T) {
		s := Build(sampleRecord())
		require.NoError(t, s.SetSummaryField(FieldTitle, "Dune Messiah"))
		require.NoError(t, s.SetSummaryField(FieldTags, "red, blue, red"))

		p := Assemble(s, "gid://shopify/Product/8112925769802")

		assert.Equal(t, "8112925769802", p.ProductID)
		assert.Equal(t, "Dune Messiah", p.Title)
		assert.Equal(t, "Ace", p.Vendor)
		assert.Equal(t, []string{"red", "blue"}, p.Tags)
		assert.Equal(t, "<p>Spice</p>", p.DescriptionHTML)
	})

	t.Run("metafield identity comes from the loaded row", func(t *testing.T) {
		s := Build(sampleRecord())
		require.NoError(t, s.SetMetafieldValue(0, "979"))

		p := Assemble(s, "")
		require.Len(t, p.Metafields, 3)
		assert.Equal(t, domain.CommitMetafield{
			Namespace: "custom",
			Key:       "isbn",
			Type:      "single_line_text_field",
			Value:     "979",
		}, p.Metafields[0])
	})

	t.Run("falls back to loaded product id", func(t *testing.T) {
		p := Assemble(Build(sampleRecord()), "  ")
		assert.Equal(t, "8112925769802", p.ProductID)
	})

	t.Run("is deterministic", func(t *testing.T) {
		s := Build(sampleRecord())
		assert.Equal(t, Assemble(s, "1"), Assemble(s, "1"))
	})

	t.Run("does not alias session state", func(t *testing.T) {
		s := Build(sampleRecord())
		p := Assemble(s, "")
		p.Tags[0] = "mutated"
		assert.Equal(t, "b", s.Tags()[0])
	})

	t.Run("nil session", func(t *testing.T) {
		p := Assemble(nil, "5")
		assert.Equal(t, "5", p.ProductID)
		assert.NotNil(t, p.Tags)
	})
}

func TestCommitPayloadAsProductData(t *testing.T) {
	p := Assemble(Build(sampleRecord()), "")

	data := p.AsProductData(7)
	assert.Equal(t, int64(7), data["accountId"])
	assert.Equal(t, "Dune", data["title"])
	assert.Equal(t, []interface{}{"b", "a", "c"}, data["tags"])

	assert.NotContains(t, p.AsProductData(0), "accountId")
}
