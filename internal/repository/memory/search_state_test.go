package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/productconsole/internal/domain"
)

func TestSearchStateStore(t *testing.T) {
	store := NewSearchStateStore()
	ctx := context.Background()

	state, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, state)

	in := &domain.SearchState{ProductID: "42"}
	require.NoError(t, store.Save(ctx, "a", in))

	state, err = store.Load(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "42", state.ProductID)
	assert.False(t, state.UpdatedAt.IsZero())

	// the stored copy is detached from the caller's value
	in.ProductID = "changed"
	state, _ = store.Load(ctx, "a")
	assert.Equal(t, "42", state.ProductID)
}
