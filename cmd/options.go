package cmd

import (
	"runtime"

	"github.com/shacklettbp/miwe/arena"
	"github.com/shacklettbp/miwe/world"
	"github.com/urfave/cli"
)

// Build world options from the pass flags shared by all commands.
func worldOptions(ctx *cli.Context, numEntities int) (world.Options, error) {
	opts := world.DefaultOptions()

	allocator, err := arena.ParseStrategy(ctx.String("allocator"))
	if err != nil {
		return opts, err
	}
	opts.Allocator = allocator
	opts.ArenaCapacity = ctx.Int("arena-capacity")
	opts.Scheduler = ctx.String("scheduler")
	opts.MaxContacts = ctx.Int("max-contacts")
	opts.MaxEvents = ctx.Int("max-contacts")

	opts.NumWorkers = ctx.Int("workers")
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = runtime.GOMAXPROCS(0)
	}

	opts.MaxEntities = numEntities
	return opts, nil
}
