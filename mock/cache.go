package mock

import (
	"context"

	"github.com/shoplens/shoplens"
)

var _ shoplens.RecordCache = (*RecordCache)(nil)

// RecordCache is a mock implementation of shoplens.RecordCache.
type RecordCache struct {
	GetFn func(ctx context.Context, url string) (*shoplens.ProductRecord, error)
	PutFn func(ctx context.Context, url string, record *shoplens.ProductRecord) error

	GetInvoked int
	PutInvoked int
}

func (c *RecordCache) Get(ctx context.Context, url string) (*shoplens.ProductRecord, error) {
	c.GetInvoked++
	if c.GetFn == nil {
		return nil, shoplens.Errorf(shoplens.ENOTFOUND, "no cached record for %q", url)
	}
	return c.GetFn(ctx, url)
}

func (c *RecordCache) Put(ctx context.Context, url string, record *shoplens.ProductRecord) error {
	c.PutInvoked++
	if c.PutFn == nil {
		return nil
	}
	return c.PutFn(ctx, url, record)
}
