package mock

import "github.com/shoplens/shoplens"

var _ shoplens.Converter = (*Converter)(nil)

// Converter is a mock implementation of shoplens.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
