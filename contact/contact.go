package contact

import (
	"fmt"

	"github.com/shacklettbp/miwe/types"
)

// The maximum number of points in a contact manifold.
const MaxPoints = 4

// Contact is the record handed to the constraint solver. Each point packs a
// world space position in its first three lanes and the penetration depth
// in the fourth lane.
type Contact struct {
	// The body whose face defines the normal.
	Ref types.Entity

	// The other body.
	Alt types.Entity

	Points    [MaxPoints]types.Vec4
	NumPoints int32

	// World space unit normal pointing from Ref towards Alt.
	Normal types.Vec3
}

// Point returns the position and penetration depth of point i.
func (c *Contact) Point(i int) (types.Vec3, float32) {
	return c.Points[i].Vec3(), c.Points[i].W()
}

// MaxDepth returns the deepest penetration over all points.
func (c *Contact) MaxDepth() float32 {
	var depth float32
	for i := 0; i < int(c.NumPoints); i++ {
		if d := c.Points[i].W(); d > depth {
			depth = d
		}
	}
	return depth
}

func (c Contact) String() string {
	return fmt.Sprintf("contact(ref: %d, alt: %d, points: %d, normal: %v, depth: %.4f)", c.Ref, c.Alt, c.NumPoints, c.Normal, c.MaxDepth())
}

// Event notifies observers that two entities touched during a pass.
type Event struct {
	A, B types.Entity
}
