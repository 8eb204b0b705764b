package mock

import (
	"context"

	"github.com/shoplens/shoplens"
)

var _ shoplens.Inferrer = (*Inferrer)(nil)

// Inferrer is a mock implementation of shoplens.Inferrer.
type Inferrer struct {
	InferFn func(ctx context.Context, prompt string, image []byte) (string, error)

	InferInvoked int
}

func (i *Inferrer) Infer(ctx context.Context, prompt string, image []byte) (string, error) {
	i.InferInvoked++
	return i.InferFn(ctx, prompt, image)
}
