package main

import (
	"context"
	"io"
	"time"

	"github.com/shoplens/shoplens"
)

// Extractor is the subset of the pipeline the commands depend on.
type Extractor interface {
	Extract(ctx context.Context, url string, opts shoplens.ExtractOptions) (*shoplens.ProductRecord, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Pipeline Extractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Extract   ExtractCmd   `cmd:"" help:"Extract product records from URLs"`
	Platforms PlatformsCmd `cmd:"" help:"List supported platforms"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs []string `arg:"" help:"Product page URLs"`

	BypassCache bool              `help:"Skip the cache read (the result is still written)"`
	Variant     map[string]string `short:"V" help:"Variant to activate before extraction, e.g. size=XL (repeatable)"`
	Delivery    bool              `short:"d" help:"Check deliverability for --pincode"`
	Pincode     string            `help:"Location code for the delivery check"`
	Timeout     time.Duration     `default:"120s" help:"Per-URL pipeline timeout"`
	Concurrency int               `short:"c" default:"3" help:"Concurrent extraction limit"`
	RPS         float64           `name:"rps" default:"1" help:"Requests per second per domain"`
}

// PlatformsCmd is the "platforms" subcommand.
type PlatformsCmd struct{}
