package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shoplens/shoplens"
	"golang.org/x/sync/errgroup"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if c.Delivery && c.Pincode == "" {
		return shoplens.Errorf(shoplens.EINVALID, "--delivery requires --pincode")
	}

	opts := shoplens.ExtractOptions{
		BypassCache:   c.BypassCache,
		Variants:      c.Variant,
		CheckDelivery: c.Delivery,
		LocationCode:  c.Pincode,
		Timeout:       c.Timeout,
	}

	// Output ordering follows completion, not the argument order; each
	// record is one JSON line so the stream stays machine-readable.
	var mu sync.Mutex
	failed := 0

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(c.Concurrency)
	for _, rawURL := range c.URLs {
		g.Go(func() error {
			rec, err := deps.Pipeline.Extract(ctx, rawURL, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				fmt.Fprintf(deps.Stderr, "%s: %s\n", rawURL, shoplens.ErrorMessage(err))
			}
			if rec != nil {
				line, merr := json.Marshal(rec)
				if merr != nil {
					return merr
				}
				fmt.Fprintln(deps.Stdout, string(line))
			}
			// Per-URL failures are reported, not fatal to the batch.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if failed == len(c.URLs) && failed > 0 {
		return shoplens.Errorf(shoplens.EINCOMPLETE, "all %d extractions failed", failed)
	}
	return nil
}
