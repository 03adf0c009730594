package broadphase

import (
	"fmt"
	"sync/atomic"

	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/log"
	"github.com/shacklettbp/miwe/types"
)

// The depth of the explicit traversal stack used by overlap queries.
const StackSize = 128

var logger = log.New("broadphase")

// BVH is a 4-wide bounding volume hierarchy over entity bounds. Leaf slots
// are reserved up front and attached to the tree by Build or refreshed by
// Refit.
//
// ReserveLeaf may be called concurrently. SetLeaf may be called
// concurrently for distinct leaves. Build and Refit must not run
// concurrently with anything else. Queries are read-only and may run in
// parallel once the tree is built.
type BVH struct {
	nodes []Node

	leafEntities []types.Entity
	leafBounds   []geo.AABB

	numLeaves atomic.Int32
	built     bool
}

// New allocates a BVH that can hold up to maxLeaves leaves.
func New(maxLeaves int) *BVH {
	return &BVH{
		leafEntities: make([]types.Entity, maxLeaves),
		leafBounds:   make([]geo.AABB, maxLeaves),
	}
}

// ReserveLeaf allocates the next leaf slot. Reserving beyond the capacity
// passed to New fails with ErrLeafCapacity.
func (b *BVH) ReserveLeaf() (int32, error) {
	idx := b.numLeaves.Add(1) - 1
	if int(idx) >= len(b.leafEntities) {
		b.numLeaves.Add(-1)
		return -1, fmt.Errorf("reserving leaf %d of %d: %w", idx, len(b.leafEntities), ErrLeafCapacity)
	}
	return idx, nil
}

// SetLeaf stores the entity and world bounds of a reserved leaf.
func (b *BVH) SetLeaf(leaf int32, entity types.Entity, bounds geo.AABB) error {
	if leaf < 0 || leaf >= b.numLeaves.Load() {
		return fmt.Errorf("leaf %d: %w", leaf, ErrInvalidLeaf)
	}
	b.leafEntities[leaf] = entity
	b.leafBounds[leaf] = bounds
	return nil
}

// LeafEntity returns the entity stored in a leaf.
func (b *BVH) LeafEntity(leaf int32) types.Entity { return b.leafEntities[leaf] }

// LeafBounds returns the bounds stored in a leaf.
func (b *BVH) LeafBounds(leaf int32) geo.AABB { return b.leafBounds[leaf] }

// NumLeaves returns the number of reserved leaves.
func (b *BVH) NumLeaves() int { return int(b.numLeaves.Load()) }

// Capacity returns the maximum number of leaves.
func (b *BVH) Capacity() int { return len(b.leafEntities) }

// Nodes exposes the node array. Node 0 is the root.
func (b *BVH) Nodes() []Node { return b.nodes }

// SetNodes installs an externally built node array.
func (b *BVH) SetNodes(nodes []Node) {
	b.nodes = nodes
	b.built = true
}

// Reset drops all leaves and nodes.
func (b *BVH) Reset() {
	b.numLeaves.Store(0)
	b.nodes = b.nodes[:0]
	b.built = false
}

// Build constructs the tree from the current leaves.
func (b *BVH) Build() {
	numLeaves := b.NumLeaves()
	items := make([]buildItem, numLeaves)
	for i := 0; i < numLeaves; i++ {
		items[i] = buildItem{
			leaf:   int32(i),
			bounds: b.leafBounds[i],
			center: b.leafBounds[i].Center(),
		}
	}

	b.nodes = build(items, surfaceAreaScore, b.nodes[:0])
	b.built = true
}

// Refit updates node bounds after leaf bounds changed without altering the
// tree topology. The set of leaves must match the one used by Build.
func (b *BVH) Refit() error {
	if !b.built {
		return ErrNotBuilt
	}
	if len(b.nodes) == 0 {
		return nil
	}
	b.refitNode(0)
	return nil
}

func (b *BVH) refitNode(nodeIdx uint32) geo.AABB {
	bounds := geo.EmptyAABB()
	for i := 0; i < Width; i++ {
		node := &b.nodes[nodeIdx]
		if !node.HasChild(i) {
			continue
		}

		var child geo.AABB
		if node.IsLeaf(i) {
			child = b.leafBounds[node.LeafIndex(i)]
		} else {
			child = b.refitNode(node.Children[i])
		}
		b.nodes[nodeIdx].SetBounds(i, child)
		bounds = bounds.Merge(child)
	}
	return bounds
}

// FindOverlaps invokes visit for every leaf whose bounds overlap box. The
// same entity may be reported more than once and no order is guaranteed.
// A tree deep enough to overflow the traversal stack yields
// ErrStackOverflow.
func (b *BVH) FindOverlaps(box geo.AABB, visit func(types.Entity)) error {
	if len(b.nodes) == 0 {
		return nil
	}

	var stack [StackSize]uint32
	stack[0] = 0
	stackSize := 1

	for stackSize > 0 {
		stackSize--
		node := &b.nodes[stack[stackSize]]
		for i := 0; i < Width; i++ {
			if !node.HasChild(i) {
				continue
			}

			if !box.Overlaps(node.Bounds(i)) {
				continue
			}

			if node.IsLeaf(i) {
				visit(b.leafEntities[node.LeafIndex(i)])
				continue
			}

			if stackSize == StackSize {
				return fmt.Errorf("node %d: %w", node.Children[i], ErrStackOverflow)
			}
			stack[stackSize] = node.Children[i]
			stackSize++
		}
	}

	return nil
}

// FindOverlappingPairs reports every pair of leaf entities whose bounds
// overlap. Each pair is reported with the lower entity first and self pairs
// are skipped.
func (b *BVH) FindOverlappingPairs(visit func(a, b types.Entity)) error {
	numLeaves := b.NumLeaves()
	for leaf := 0; leaf < numLeaves; leaf++ {
		entity := b.leafEntities[leaf]
		err := b.FindOverlaps(b.leafBounds[leaf], func(other types.Entity) {
			if entity < other {
				visit(entity, other)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}
