package pipeline_test

import (
	"testing"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("fill wins only where base is null", func(t *testing.T) {
		t.Parallel()
		base := &shoplens.ProductRecord{Title: shoplens.String("Index Title")}
		fill := &shoplens.ProductRecord{
			Title: shoplens.String("AI Title"),
			Price: shoplens.String("₹999"),
		}
		got := pipeline.Merge(base, fill)
		assert.Equal(t, "Index Title", *got.Title)
		assert.Equal(t, "₹999", *got.Price)
	})

	t.Run("arrays union deduplicated", func(t *testing.T) {
		t.Parallel()
		base := &shoplens.ProductRecord{
			Images:   []string{"a.jpg", "b.jpg"},
			Features: []string{"durable"},
		}
		fill := &shoplens.ProductRecord{
			Images:   []string{"b.jpg", "c.jpg"},
			Features: []string{"durable", "waterproof"},
		}
		got := pipeline.Merge(base, fill)
		assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, got.Images)
		assert.Equal(t, []string{"durable", "waterproof"}, got.Features)
	})

	t.Run("variants shallow merge into unset keys", func(t *testing.T) {
		t.Parallel()
		base := &shoplens.ProductRecord{Variants: shoplens.Variants{Sizes: []string{"S", "M"}}}
		fill := &shoplens.ProductRecord{Variants: shoplens.Variants{
			Sizes:  []string{"XL"},
			Colors: []string{"Black", "Navy"},
		}}
		got := pipeline.Merge(base, fill)
		assert.Equal(t, []string{"S", "M"}, got.Variants.Sizes, "set keys keep the base value")
		assert.Equal(t, []string{"Black", "Navy"}, got.Variants.Colors, "unset keys take the fill value")
	})

	t.Run("nil operands", func(t *testing.T) {
		t.Parallel()
		rec := &shoplens.ProductRecord{}
		assert.Same(t, rec, pipeline.Merge(rec, nil))
		assert.Same(t, rec, pipeline.Merge(nil, rec))
		require.Nil(t, pipeline.Merge(nil, nil))
	})
}
