package pipeline_test

import (
	"context"
	"testing"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/mock"
	"github.com/shoplens/shoplens/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deliveryPage has no element reachable by the platform selector tables:
// the generic scored input finder has to locate the pincode field.
func deliveryPage(resultText string) *shoplens.Node {
	return &shoplens.Node{Tag: "body", Visible: true, Rect: shoplens.Rect{W: 1200, H: 2000}, Children: []*shoplens.Node{
		{Tag: "div", Visible: true, Rect: shoplens.Rect{W: 400, H: 60}, Children: []*shoplens.Node{
			{Tag: "span", Text: "Delivery pincode", Visible: true, Rect: shoplens.Rect{W: 120, H: 20}},
			{Tag: "input", Visible: true, Rect: shoplens.Rect{W: 160, H: 30}, Attrs: map[string]string{"type": "text", "placeholder": "Enter pincode"}},
		}},
		{Tag: "div", Text: resultText, Visible: true, Rect: shoplens.Rect{W: 400, H: 40}},
	}}
}

func TestPipeline_Delivery_GenericFinderFallback(t *testing.T) {
	t.Parallel()

	root := deliveryPage("Free delivery by Monday, 1 Sep")
	session := sessionFor(root)
	idx := &mock.Strategy{
		ExtractFn: func(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
			return completeRecord(), nil
		},
	}
	p := &pipeline.Pipeline{
		Renderer:   rendererFor(session),
		Strategies: []shoplens.Strategy{idx},
	}

	opts := shoplens.ExtractOptions{CheckDelivery: true, LocationCode: "560001"}
	rec, err := p.Extract(context.Background(), productURL, opts)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, session.TypeInvoked, 1, "the generic finder must locate and fill the input")
	assert.Equal(t, "560001", rec.Delivery.LocationCode)
	require.NotNil(t, rec.Delivery.Available)
	assert.True(t, *rec.Delivery.Available)
	require.NotNil(t, rec.Delivery.EstimatedDate)
	assert.Equal(t, "Monday", *rec.Delivery.EstimatedDate)
	require.NotNil(t, rec.Delivery.Charges)
	assert.Equal(t, "Free", *rec.Delivery.Charges)
}

func TestPipeline_Delivery_Unavailable(t *testing.T) {
	t.Parallel()

	root := deliveryPage("This item is currently unserviceable at your pincode 560001")
	session := sessionFor(root)
	idx := &mock.Strategy{
		ExtractFn: func(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
			return completeRecord(), nil
		},
	}
	p := &pipeline.Pipeline{
		Renderer:   rendererFor(session),
		Strategies: []shoplens.Strategy{idx},
	}

	rec, err := p.Extract(context.Background(), productURL, shoplens.ExtractOptions{CheckDelivery: true, LocationCode: "560001"})
	require.NoError(t, err)
	require.NotNil(t, rec.Delivery.Available)
	assert.False(t, *rec.Delivery.Available)
	assert.Nil(t, rec.Delivery.EstimatedDate)
}

func TestPipeline_Delivery_ResultOutranksWidgetLabel(t *testing.T) {
	t.Parallel()

	// The widget's own "Delivery pincode" label carries the same
	// vocabulary as the result text. The scan must keep the result: the
	// label has nothing to parse and would leave Available unresolved.
	root := deliveryPage("Shipping and dispatch unavailable in your area")
	session := sessionFor(root)
	idx := &mock.Strategy{
		ExtractFn: func(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
			return completeRecord(), nil
		},
	}
	p := &pipeline.Pipeline{
		Renderer:   rendererFor(session),
		Strategies: []shoplens.Strategy{idx},
	}

	rec, err := p.Extract(context.Background(), productURL, shoplens.ExtractOptions{CheckDelivery: true, LocationCode: "999999"})
	require.NoError(t, err)
	require.NotNil(t, rec.Delivery.Available)
	assert.False(t, *rec.Delivery.Available)
}

func TestPipeline_Delivery_AIScreenshotFallback(t *testing.T) {
	t.Parallel()

	// No input field and no delivery text anywhere: only the inference
	// service can answer.
	root := &shoplens.Node{Tag: "body", Visible: true, Rect: shoplens.Rect{W: 1200, H: 800}}
	session := sessionFor(root)
	session.ScreenshotFn = func(ctx context.Context) ([]byte, error) { return []byte("png"), nil }

	inferrer := &mock.Inferrer{
		InferFn: func(ctx context.Context, prompt string, image []byte) (string, error) {
			assert.NotEmpty(t, image, "the delivery fallback must attach a screenshot")
			return `{"available": true, "estimatedDate": "Tuesday", "charges": null}`, nil
		},
	}
	idx := &mock.Strategy{
		ExtractFn: func(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
			return completeRecord(), nil
		},
	}
	p := &pipeline.Pipeline{
		Renderer:   rendererFor(session),
		Inferrer:   inferrer,
		Strategies: []shoplens.Strategy{idx},
	}

	rec, err := p.Extract(context.Background(), productURL, shoplens.ExtractOptions{CheckDelivery: true, LocationCode: "110001"})
	require.NoError(t, err)
	assert.Equal(t, 1, inferrer.InferInvoked)
	require.NotNil(t, rec.Delivery.Available)
	assert.True(t, *rec.Delivery.Available)
	assert.Equal(t, "Tuesday", *rec.Delivery.EstimatedDate)
	assert.Nil(t, rec.Delivery.Charges)
	assert.Equal(t, "110001", rec.Delivery.LocationCode)
}

func TestPipeline_Delivery_NotRequested(t *testing.T) {
	t.Parallel()

	idx := &mock.Strategy{
		ExtractFn: func(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
			return completeRecord(), nil
		},
	}
	p := &pipeline.Pipeline{
		Renderer:   rendererFor(sessionFor(&shoplens.Node{Tag: "body", Visible: true, Rect: shoplens.Rect{W: 1, H: 1}})),
		Strategies: []shoplens.Strategy{idx},
	}

	rec, err := p.Extract(context.Background(), productURL, shoplens.ExtractOptions{})
	require.NoError(t, err)
	assert.Nil(t, rec.Delivery.Available)
	assert.Nil(t, rec.Delivery.EstimatedDate)
	assert.Nil(t, rec.Delivery.Charges)
	assert.Empty(t, rec.Delivery.LocationCode)
}
