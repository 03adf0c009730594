package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shacklettbp/miwe/types"
	"github.com/shacklettbp/miwe/world"
	"github.com/urfave/cli"
)

const (
	// Distance between box columns and between resting spheres.
	columnSpacing float32 = 3
	sphereSpacing float32 = 0.95

	// Overlap between boxes stacked on top of each other.
	stackOverlap float32 = 0.02
)

// Benchmark collision passes over a generated scene: columns of boxes with
// random yaw stacked on a ground plane next to a field of resting spheres.
func Bench(ctx *cli.Context) error {
	setupLogging(ctx)

	numColumns := ctx.Int("columns")
	stackHeight := ctx.Int("stack-height")
	numSpheres := ctx.Int("spheres")
	numEntities := 1 + numColumns*stackHeight + numSpheres

	opts, err := worldOptions(ctx, numEntities)
	if err != nil {
		return err
	}

	start := time.Now()
	w, err := buildBenchWorld(opts.MaxEntities, numColumns, stackHeight, numSpheres, rand.New(rand.NewSource(ctx.Int64("seed"))))
	if err != nil {
		return err
	}
	logger.Noticef("generated %d entities in %d ms", w.NumEntities(), time.Since(start).Nanoseconds()/1e6)

	sys, err := world.NewSystem(w, opts)
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

	displayWorkerStats(passes[len(passes)-1])
	displayPassStats(passes)
	return nil
}

func buildBenchWorld(maxEntities, numColumns, stackHeight, numSpheres int, rng *rand.Rand) (*world.World, error) {
	objects := world.NewObjectManager()
	box, err := objects.AddBox(types.XYZ(1, 1, 1))
	if err != nil {
		return nil, err
	}
	sphere, err := objects.AddSphere(0.5)
	if err != nil {
		return nil, err
	}
	ground := objects.AddPlane()

	w := world.New(objects, maxEntities)
	if _, err = w.AddEntity(ground, types.IdentityPose()); err != nil {
		return nil, err
	}

	gridW := 1
	for gridW*gridW < numColumns {
		gridW++
	}
	for col := 0; col < numColumns; col++ {
		x := float32(col%gridW) * columnSpacing
		y := float32(col/gridW) * columnSpacing
		for level := 0; level < stackHeight; level++ {
			pose := types.PoseAt(types.XYZ(x, y, 1-stackOverlap+float32(level)*(2-stackOverlap)))
			pose.Rotation = types.QuatFromAxisDegrees(types.XYZ(0, 0, 1), rng.Float32()*90)
			if _, err = w.AddEntity(box, pose); err != nil {
				return nil, err
			}
		}
	}

	// Spheres sit in a separate field so they never pair with boxes.
	offsetX := float32(gridW)*columnSpacing + columnSpacing
	for idx := 0; idx < numSpheres; idx++ {
		pos := types.XYZ(
			offsetX+float32(idx%gridW)*sphereSpacing,
			float32(idx/gridW)*sphereSpacing,
			0.5-stackOverlap*rng.Float32(),
		)
		if _, err = w.AddEntity(sphere, types.PoseAt(pos)); err != nil {
			return nil, err
		}
	}

	return w, nil
}
