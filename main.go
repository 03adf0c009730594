package main

import (
	"os"

	"github.com/shacklettbp/miwe/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	passFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "passes, n",
			Value: 1,
			Usage: "number of collision passes to run",
		},
		cli.IntFlag{
			Name:  "workers, w",
			Value: 0,
			Usage: "number of narrowphase workers; 0 uses one per available cpu",
		},
		cli.StringFlag{
			Name:  "scheduler",
			Value: "perfect",
			Usage: "pair scheduler (naive, perfect)",
		},
		cli.StringFlag{
			Name:  "allocator",
			Value: "heap",
			Usage: "scratch allocator strategy (heap, fixed)",
		},
		cli.IntFlag{
			Name:  "arena-capacity",
			Value: 4096,
			Usage: "scratch elements reserved per worker and element type",
		},
		cli.IntFlag{
			Name:  "max-contacts",
			Value: 1 << 16,
			Usage: "contact buffer capacity for a single pass",
		},
	}

	app := cli.NewApp()
	app.Name = "miwe"
	app.Usage = "detect collisions between rigid bodies"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write logs to a size-rotated file",
		},
		cli.IntFlag{
			Name:  "log-max-size",
			Value: 10,
			Usage: "maximum size of the log file in megabytes before it is rotated",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "simulate",
			Usage: "run collision passes over a scene",
			Description: `
Load a YAML scene description from a local path or an http(s) url, run the
requested number of collision passes and display the contacts produced by
the last one together with pass statistics.`,
			ArgsUsage: "scene.yaml",
			Flags:     passFlags,
			Action:    cmd.Simulate,
		},
		{
			Name:  "bench",
			Usage: "benchmark collision passes over a generated scene",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "columns",
					Value: 64,
					Usage: "number of box columns",
				},
				cli.IntFlag{
					Name:  "stack-height",
					Value: 8,
					Usage: "number of boxes in each column",
				},
				cli.IntFlag{
					Name:  "spheres",
					Value: 256,
					Usage: "number of spheres resting on the ground",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "seed for the random box orientations",
				},
			}, passFlags...),
			Action: cmd.Bench,
		},
		{
			Name:      "check",
			Usage:     "validate a scene and display its objects and entities",
			ArgsUsage: "scene.yaml",
			Action:    cmd.Check,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
