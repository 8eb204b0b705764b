package main

import (
	"fmt"

	"github.com/shoplens/shoplens"
)

// Run executes the platforms command.
func (c *PlatformsCmd) Run(deps *Dependencies) error {
	for _, p := range shoplens.Platforms() {
		fmt.Fprintln(deps.Stdout, p)
	}
	return nil
}
