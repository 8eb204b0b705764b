package mock

import (
	"context"

	"github.com/shoplens/shoplens"
)

var _ shoplens.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of shoplens.Strategy.
type Strategy struct {
	NameFn    func() string
	ExtractFn func(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error)

	ExtractInvoked int
}

func (s *Strategy) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

func (s *Strategy) Extract(ctx context.Context, page *shoplens.PageContext) (*shoplens.ProductRecord, error) {
	s.ExtractInvoked++
	return s.ExtractFn(ctx, page)
}
