package broadphase

import (
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// The number of children per node.
const Width = 4

const (
	leafFlag      uint32 = 0x80000000
	emptySentinel uint32 = 0xFFFFFFFF
)

// Node is a 4-wide BVH node. Child bounds are stored as structure of arrays
// so a node can be tested against a query box one axis at a time.
//
// A child slot is either empty, a leaf (high bit set, low bits hold the leaf
// index) or the index of another node. The empty sentinel also has the high
// bit set so HasChild must be checked before IsLeaf.
type Node struct {
	MinX, MinY, MinZ [Width]float32
	MaxX, MaxY, MaxZ [Width]float32
	Children         [Width]uint32
}

// NewNode returns a node with all child slots empty.
func NewNode() Node {
	var n Node
	for i := range n.Children {
		n.ClearChild(i)
	}
	return n
}

func (n *Node) HasChild(i int) bool { return n.Children[i] != emptySentinel }

func (n *Node) IsLeaf(i int) bool { return n.Children[i]&leafFlag != 0 }

func (n *Node) LeafIndex(i int) int32 { return int32(n.Children[i] &^ leafFlag) }

func (n *Node) SetLeaf(i int, leaf int32) { n.Children[i] = leafFlag | uint32(leaf) }

func (n *Node) SetInternal(i int, node uint32) { n.Children[i] = node }

func (n *Node) ClearChild(i int) { n.Children[i] = emptySentinel }

// Bounds returns the box of child i.
func (n *Node) Bounds(i int) geo.AABB {
	return geo.AABB{
		Min: types.XYZ(n.MinX[i], n.MinY[i], n.MinZ[i]),
		Max: types.XYZ(n.MaxX[i], n.MaxY[i], n.MaxZ[i]),
	}
}

// SetBounds stores the box of child i.
func (n *Node) SetBounds(i int, box geo.AABB) {
	n.MinX[i], n.MinY[i], n.MinZ[i] = box.Min[0], box.Min[1], box.Min[2]
	n.MaxX[i], n.MaxY[i], n.MaxZ[i] = box.Max[0], box.Max[1], box.Max[2]
}

// NumChildren counts the occupied child slots.
func (n *Node) NumChildren() int {
	count := 0
	for i := 0; i < Width; i++ {
		if n.HasChild(i) {
			count++
		}
	}
	return count
}
