package score_test

import (
	"testing"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorer_Input(t *testing.T) {
	t.Parallel()

	root := visible(&shoplens.Node{Tag: "body", Children: []*shoplens.Node{
		{Tag: "input", Attrs: map[string]string{"type": "search", "name": "site-search"}},
		{Tag: "div", Children: []*shoplens.Node{
			{Tag: "span", Text: "Delivery pincode"},
			{Tag: "input", Attrs: map[string]string{"type": "text", "id": "pincodeInputId", "placeholder": "Enter pincode"}},
		}},
		{Tag: "input", Attrs: map[string]string{"type": "hidden", "name": "pincode-token"}},
	}})

	s := score.New(root, nil)

	loc, ok := s.Input("pincode", "zip", "postal")
	require.True(t, ok)
	n := root.At(loc)
	require.NotNil(t, n)
	assert.Equal(t, "pincodeInputId", n.Attr("id"))
}

func TestScorer_Input_NotFound(t *testing.T) {
	t.Parallel()

	root := visible(&shoplens.Node{Tag: "body", Children: []*shoplens.Node{
		{Tag: "input", Attrs: map[string]string{"type": "checkbox", "name": "pincode-optin"}},
		{Tag: "input", Attrs: map[string]string{"type": "text", "name": "email"}},
	}})

	_, ok := score.New(root, nil).Input("pincode", "zip")
	assert.False(t, ok)
}

func TestScorer_ClickableByText(t *testing.T) {
	t.Parallel()

	root := visible(&shoplens.Node{Tag: "body", Children: []*shoplens.Node{
		{Tag: "div", Text: "XL"}, // not clickable
		{Tag: "button", Text: "XL"},
	}})

	loc, ok := score.New(root, nil).ClickableByText("xl")
	require.True(t, ok)
	assert.Equal(t, shoplens.RootLocation.Child(1), loc)

	_, ok = score.New(root, nil).ClickableByText("XXL")
	assert.False(t, ok)
}

func TestScorer_ClickableNear(t *testing.T) {
	t.Parallel()

	// Two "M" buttons exist; only the one inside the Size container counts.
	root := visible(&shoplens.Node{Tag: "body", Children: []*shoplens.Node{
		{Tag: "div", Children: []*shoplens.Node{
			{Tag: "span", Text: "Colour"},
			{Tag: "button", Text: "M"},
		}},
		{Tag: "div", Children: []*shoplens.Node{
			{Tag: "span", Text: "Size"},
			{Tag: "button", Text: "S"},
			{Tag: "button", Text: "M"},
		}},
	}})

	loc, ok := score.New(root, nil).ClickableNear("M", "size")
	require.True(t, ok)
	assert.Equal(t, shoplens.RootLocation.Child(1).Child(2), loc)
}

func TestScorer_ClickableNear_RoleButton(t *testing.T) {
	t.Parallel()

	root := visible(&shoplens.Node{Tag: "body", Children: []*shoplens.Node{
		{Tag: "div", Children: []*shoplens.Node{
			{Tag: "span", Text: "Size"},
			{Tag: "div", Text: "L", Attrs: map[string]string{"role": "button"}},
		}},
	}})

	_, ok := score.New(root, nil).ClickableNear("l", "size")
	assert.True(t, ok)
}
