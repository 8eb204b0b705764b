package shoplens_test

import (
	"net/url"
	"testing"

	"github.com/shoplens/shoplens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRecord_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults for empty record", func(t *testing.T) {
		t.Parallel()

		r := &shoplens.ProductRecord{OriginalURL: "https://www.amazon.in/dp/B0TEST"}
		r.Normalize()

		assert.Nil(t, r.Title)
		assert.Nil(t, r.Price)
		assert.NotNil(t, r.Features)
		assert.Empty(t, r.Features)
		assert.NotNil(t, r.Images)
		assert.NotNil(t, r.Variants.Sizes)
		assert.False(t, r.ScrapedAt.IsZero())
	})

	t.Run("whitespace-only values become null", func(t *testing.T) {
		t.Parallel()

		r := &shoplens.ProductRecord{Title: shoplens.String("x")}
		ws := "   "
		r.Description = &ws
		r.Normalize()

		assert.Nil(t, r.Description)
		require.NotNil(t, r.Title)
		assert.Equal(t, "x", *r.Title)
	})

	t.Run("variant sets are deduplicated", func(t *testing.T) {
		t.Parallel()

		r := &shoplens.ProductRecord{
			Variants: shoplens.Variants{Sizes: []string{"M", "L", "m", " L "}},
		}
		r.Normalize()

		assert.Equal(t, []string{"M", "L"}, r.Variants.Sizes)
	})
}

func TestProductRecord_Complete(t *testing.T) {
	t.Parallel()

	r := &shoplens.ProductRecord{
		Title:       shoplens.String("Trail Shoe"),
		Price:       shoplens.String("₹2,499"),
		Description: shoplens.String("A shoe."),
		Images:      []string{"https://img.example.com/a.jpg"},
	}
	assert.True(t, r.Complete())

	r.Price = nil
	assert.False(t, r.Complete())
}

func TestProductRecord_Validate(t *testing.T) {
	t.Parallel()

	r := &shoplens.ProductRecord{}
	err := r.Validate()
	assert.Equal(t, shoplens.EINCOMPLETE, shoplens.ErrorCode(err))

	r.Title = shoplens.String("Trail Shoe")
	assert.NoError(t, r.Validate())
}

func TestCleanImageURLs(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://www.flipkart.com/p/item")
	require.NoError(t, err)

	t.Run("resolves relative and drops data URLs", func(t *testing.T) {
		t.Parallel()

		got := shoplens.CleanImageURLs(base, []string{
			"/image/410/612/product.jpg",
			"data:image/gif;base64,R0lGOD",
			"https://rukminim2.flixcart.com/image/832/832/shoe.jpg",
		})

		assert.Equal(t, []string{
			"https://www.flipkart.com/image/410/612/product.jpg",
			"https://rukminim2.flixcart.com/image/832/832/shoe.jpg",
		}, got)
	})

	t.Run("deduplicates preserving order and caps at five", func(t *testing.T) {
		t.Parallel()

		in := []string{
			"https://a.test/1.jpg", "https://a.test/2.jpg", "https://a.test/1.jpg",
			"https://a.test/3.jpg", "https://a.test/4.jpg", "https://a.test/5.jpg",
			"https://a.test/6.jpg",
		}
		got := shoplens.CleanImageURLs(base, in)

		assert.Len(t, got, shoplens.MaxImages)
		assert.Equal(t, "https://a.test/1.jpg", got[0])
		assert.NotContains(t, got, "https://a.test/6.jpg")
	})

	t.Run("excludes sprites and icons", func(t *testing.T) {
		t.Parallel()

		got := shoplens.CleanImageURLs(base, []string{
			"https://a.test/nav-sprite.png",
			"https://a.test/cart-icon.png",
			"https://a.test/product-zoom.jpg",
		})

		assert.Equal(t, []string{"https://a.test/product-zoom.jpg"}, got)
	})

	t.Run("marker inside a longer word is not a match", func(t *testing.T) {
		t.Parallel()

		got := shoplens.CleanImageURLs(base, []string{
			"https://a.test/premium-silicon-case.jpg",
			"https://a.test/catalogo/item.jpg",
			"https://a.test/icons/close.svg",
			"https://a.test/favicon.ico",
		})

		assert.Equal(t, []string{
			"https://a.test/premium-silicon-case.jpg",
			"https://a.test/catalogo/item.jpg",
		}, got)
	})
}
