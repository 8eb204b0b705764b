package pipeline

import "github.com/shoplens/shoplens"

// Merge overlays fill onto base. Scalar fields from fill win only where
// base left them null; array fields (images, features) are unioned keeping
// base order first; variant sets are shallow-merged with fill filling only
// the sets base left empty. Delivery is never merged: the inquiry protocol
// owns it.
func Merge(base, fill *shoplens.ProductRecord) *shoplens.ProductRecord {
	if base == nil {
		return fill
	}
	if fill == nil {
		return base
	}

	base.Title = fillStr(base.Title, fill.Title)
	base.Price = fillStr(base.Price, fill.Price)
	base.OriginalPrice = fillStr(base.OriginalPrice, fill.OriginalPrice)
	base.Description = fillStr(base.Description, fill.Description)
	base.Weight = fillStr(base.Weight, fill.Weight)
	base.Category = fillStr(base.Category, fill.Category)

	base.Images = union(base.Images, fill.Images)
	base.Features = union(base.Features, fill.Features)

	if len(base.Variants.Sizes) == 0 {
		base.Variants.Sizes = fill.Variants.Sizes
	}
	if len(base.Variants.Colors) == 0 {
		base.Variants.Colors = fill.Variants.Colors
	}
	if len(base.Variants.Other) == 0 {
		base.Variants.Other = fill.Variants.Other
	}
	return base
}

func fillStr(base, fill *string) *string {
	if base != nil {
		return base
	}
	return fill
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, s := range b {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
