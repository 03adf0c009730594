package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/narrowphase"
	"github.com/shacklettbp/miwe/scene"
	"github.com/shacklettbp/miwe/types"
	"github.com/urfave/cli"
)

// Load a scene, validating its hulls, and display its objects and entities.
func Check(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := scene.ReadScene(ctx.Args().First(), 0)
	if err != nil {
		return err
	}

	objects := sc.World.Objects()

	var buf bytes.Buffer
	table := newTable(&buf, "Object", "Type", "Vertices", "Faces", "Edges", "Bounds")
	for _, name := range sc.ObjectNames {
		obj := sc.Objects[name]
		prim := objects.Primitive(obj)
		row := []string{name, prim.Type().String(), "-", "-", "-", formatAABB(objects.AABB(obj))}
		if hull, ok := prim.(narrowphase.Hull); ok {
			row[2] = fmt.Sprintf("%d", hull.Mesh.NumVertices())
			row[3] = fmt.Sprintf("%d", hull.Mesh.NumFaces())
			row[4] = fmt.Sprintf("%d", hull.Mesh.NumEdges())
		}
		table.Append(row)
	}
	table.Render()
	logger.Noticef("objects\n%s", buf.String())

	buf.Reset()
	table = newTable(&buf, "Entity", "Object", "World bounds")
	for e, name := range sc.EntityNames {
		entity := types.Entity(e)
		table.Append([]string{name, sc.ObjectNames[sc.World.Object(entity)], formatAABB(sc.World.WorldAABB(entity))})
	}
	table.SetFooter([]string{"", "TOTAL", fmt.Sprintf("%d", len(sc.EntityNames))})
	table.Render()
	logger.Noticef("entities\n%s", buf.String())

	return nil
}

func formatAABB(box geo.AABB) string {
	return fmt.Sprintf(
		"(%.2f, %.2f, %.2f) - (%.2f, %.2f, %.2f)",
		box.Min[0], box.Min[1], box.Min[2], box.Max[0], box.Max[1], box.Max[2],
	)
}
