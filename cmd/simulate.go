package cmd

import (
	"errors"
	"fmt"

	"github.com/shacklettbp/miwe/scene"
	"github.com/shacklettbp/miwe/world"
	"github.com/urfave/cli"
)

// Run collision passes over a scene file and display the contacts of the
// last pass.
func Simulate(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := scene.ReadScene(ctx.Args().First(), 0)
	if err != nil {
		return err
	}

	opts, err := worldOptions(ctx, sc.World.NumEntities())
	if err != nil {
		return err
	}
	sys, err := world.NewSystem(sc.World, opts)
	if err != nil {
		return err
	}

	passes := make([]world.PassStats, 0, ctx.Int("passes"))
	for pass := 0; pass < ctx.Int("passes"); pass++ {
		stats, err := sys.Step()
		if err != nil {
			return fmt.Errorf("pass %d: %w", pass, err)
		}
		passes = append(passes, stats)
	}
	if len(passes) == 0 {
		return nil
	}

	displayContacts(sys.Contacts(), sys.Events(), func(e int) string { return sc.EntityNames[e] })
	displayWorkerStats(passes[len(passes)-1])
	displayPassStats(passes)

	return nil
}
