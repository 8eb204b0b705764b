package shoplens_test

import (
	"testing"

	"github.com/shoplens/shoplens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want shoplens.Platform
		code string
	}{
		{"amazon india", "https://www.amazon.in/dp/B0TEST123", shoplens.PlatformAmazon, ""},
		{"amazon com", "https://www.amazon.com/gp/product/B0TEST123", shoplens.PlatformAmazon, ""},
		{"flipkart", "https://www.flipkart.com/shoe/p/itm123?pid=SHO123", shoplens.PlatformFlipkart, ""},
		{"myntra", "https://www.myntra.com/shoes/brand/123/buy", shoplens.PlatformMyntra, ""},
		{"snapdeal", "https://www.snapdeal.com/product/shoe/123", shoplens.PlatformSnapdeal, ""},
		{"unsupported domain", "https://www.example.com/product/1", "", shoplens.EUNSUPPORTED},
		{"relative url", "/dp/B0TEST123", "", shoplens.EINVALID},
		{"non-http scheme", "ftp://amazon.in/dp/B0TEST123", "", shoplens.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := shoplens.DetectPlatform(tt.url)
			if tt.code != "" {
				assert.Equal(t, tt.code, shoplens.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlatform_Config(t *testing.T) {
	t.Parallel()

	cfg := shoplens.PlatformAmazon.Config()
	assert.NotEmpty(t, cfg.DeliveryInputSelectors)
	assert.NotEmpty(t, cfg.ChallengeMarkers)

	// Unknown platforms degrade to an all-generic config.
	assert.Empty(t, shoplens.Platform("unknown").Config().DeliveryInputSelectors)
}
