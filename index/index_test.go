package index_test

import (
	"strings"
	"testing"

	"github.com/shoplens/shoplens"
	"github.com/shoplens/shoplens/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visible(n *shoplens.Node) *shoplens.Node {
	n.Visible = true
	if n.Rect.Area() == 0 {
		n.Rect = shoplens.Rect{W: 100, H: 20}
	}
	for _, c := range n.Children {
		visible(c)
	}
	return n
}

func productTree() *shoplens.Node {
	return visible(&shoplens.Node{
		Tag: "body",
		Children: []*shoplens.Node{
			{Tag: "h1", Text: "Wildcraft Hiking Backpack 44L", Attrs: map[string]string{"id": "productTitle"}},
			{Tag: "div", Classes: []string{"price-box", "a-section"},
				Children: []*shoplens.Node{
					{Tag: "span", Text: "₹2,499"},
				}},
			{Tag: "input", Attrs: map[string]string{"placeholder": "Enter Delivery Pincode", "type": "text"}},
		},
	})
}

func TestBuild_NilRoot(t *testing.T) {
	t.Parallel()

	assert.Nil(t, index.Build(nil))
}

func TestBuild_TextIndex(t *testing.T) {
	t.Parallel()

	ix := index.Build(productTree())
	require.NotNil(t, ix)

	t.Run("full text is indexed lower-cased", func(t *testing.T) {
		locs := ix.LookupText("Wildcraft Hiking Backpack 44L")
		require.Len(t, locs, 1)
		assert.Equal(t, shoplens.Location("0/0"), locs[0])
	})

	t.Run("overlapping substrings support fuzzy lookup", func(t *testing.T) {
		locs := ix.FuzzyText("hiking backpack")
		require.NotEmpty(t, locs)
		assert.Equal(t, shoplens.Location("0/0"), locs[0])
	})

	t.Run("short text indexed without shingles", func(t *testing.T) {
		locs := ix.LookupText("₹2,499")
		require.Len(t, locs, 1)
		assert.Equal(t, shoplens.Location("0/1/0"), locs[0])
	})
}

func TestBuild_TextLengthBounds(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 200)
	root := visible(&shoplens.Node{
		Tag: "body",
		Children: []*shoplens.Node{
			{Tag: "p", Text: long},
			{Tag: "p", Text: ""},
		},
	})

	ix := index.Build(root)
	require.NotNil(t, ix)
	assert.Empty(t, ix.LookupText(long))
	assert.Empty(t, ix.LookupText(""))
}

func TestBuild_TagAndClassIndex(t *testing.T) {
	t.Parallel()

	ix := index.Build(productTree())
	require.NotNil(t, ix)

	assert.Equal(t, []shoplens.Location{"0/0"}, ix.LookupTag("H1"))
	assert.Equal(t, []shoplens.Location{"0/1"}, ix.LookupClass("price-box"))
	assert.Equal(t, []shoplens.Location{"0/1"}, ix.LookupClass("A-Section"))
}

func TestBuild_AttrIndex(t *testing.T) {
	t.Parallel()

	ix := index.Build(productTree())
	require.NotNil(t, ix)

	t.Run("name=value entries", func(t *testing.T) {
		assert.Equal(t, []shoplens.Location{"0/2"}, ix.LookupAttr("placeholder=enter delivery pincode"))
		assert.Equal(t, []shoplens.Location{"0/2"}, ix.LookupAttr("type=text"))
	})

	t.Run("bare value entries only for identifying attributes", func(t *testing.T) {
		assert.Equal(t, []shoplens.Location{"0/0"}, ix.LookupAttr("producttitle"))
		assert.Equal(t, []shoplens.Location{"0/2"}, ix.LookupAttr("enter delivery pincode"))
		assert.Empty(t, ix.LookupAttr("text")) // type is not identifying
	})
}

func TestBuild_SkipsInvisibleSubtrees(t *testing.T) {
	t.Parallel()

	root := visible(&shoplens.Node{
		Tag: "body",
		Children: []*shoplens.Node{
			{Tag: "div", Text: "shown"},
		},
	})
	hidden := &shoplens.Node{
		Tag: "div", Text: "hidden modal", Visible: false,
		Children: []*shoplens.Node{{Tag: "span", Text: "nested hidden", Visible: true, Rect: shoplens.Rect{W: 10, H: 10}}},
	}
	root.Children = append(root.Children, hidden)

	ix := index.Build(root)
	require.NotNil(t, ix)

	assert.NotEmpty(t, ix.LookupText("shown"))
	assert.Empty(t, ix.LookupText("hidden modal"))
	assert.Empty(t, ix.LookupText("nested hidden"))
}

func TestBuild_Hierarchy(t *testing.T) {
	t.Parallel()

	ix := index.Build(productTree())
	require.NotNil(t, ix)

	assert.Equal(t, []shoplens.Location{"0/0", "0/1", "0/2"}, ix.ChildrenOf("0"))
	assert.Equal(t, []shoplens.Location{"0/1/0"}, ix.ChildrenOf("0/1"))
}
