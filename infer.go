package shoplens

import "context"

// Inferrer is an external AI inference service. It accepts a prompt and an
// optional screenshot and returns best-effort raw text; callers own parsing
// (see jsonrepair). The call is the pipeline's dominant latency and failure
// source: callers must impose a hard timeout and treat any error as
// "service unavailable", never as fatal.
type Inferrer interface {
	Infer(ctx context.Context, prompt string, image []byte) (string, error)
}
