package world

import (
	"fmt"

	"github.com/shacklettbp/miwe/broadphase"
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/narrowphase"
	"github.com/shacklettbp/miwe/types"
)

// World stores the per entity components read by the collision pipeline.
// Entity ids double as broadphase leaf indices.
//
// AddEntity may be called concurrently. Everything else must not overlap
// with a running pass.
type World struct {
	objects *ObjectManager
	bvh     *broadphase.BVH

	entityObjects []narrowphase.ObjectID
	poses         []types.Pose

	// Number of leaves the current tree was built with.
	builtLeaves int
}

// New creates a world that can hold up to maxEntities entities.
func New(objects *ObjectManager, maxEntities int) *World {
	return &World{
		objects:       objects,
		bvh:           broadphase.New(maxEntities),
		entityObjects: make([]narrowphase.ObjectID, maxEntities),
		poses:         make([]types.Pose, maxEntities),
		builtLeaves:   -1,
	}
}

// Objects returns the object table of the world.
func (w *World) Objects() *ObjectManager { return w.objects }

// AddEntity creates an entity bound to obj. Spheres only accept uniform
// scale.
func (w *World) AddEntity(obj narrowphase.ObjectID, pose types.Pose) (types.Entity, error) {
	if !w.objects.valid(obj) {
		return types.InvalidEntity, fmt.Errorf("object %d: %w", obj, ErrUnknownObject)
	}
	if err := w.checkPose(obj, pose); err != nil {
		return types.InvalidEntity, err
	}

	leaf, err := w.bvh.ReserveLeaf()
	if err != nil {
		return types.InvalidEntity, err
	}

	w.entityObjects[leaf] = obj
	w.poses[leaf] = pose
	return types.Entity(leaf), nil
}

// SetPose moves an existing entity. The broadphase picks up the change on
// the next update.
func (w *World) SetPose(e types.Entity, pose types.Pose) error {
	if !w.valid(e) {
		return fmt.Errorf("entity %d: %w", e, ErrUnknownEntity)
	}
	if err := w.checkPose(w.entityObjects[e], pose); err != nil {
		return err
	}
	w.poses[e] = pose
	return nil
}

func (w *World) checkPose(obj narrowphase.ObjectID, pose types.Pose) error {
	if _, isSphere := w.objects.Primitive(obj).(narrowphase.Sphere); isSphere && !pose.Scale.IsUniform() {
		return fmt.Errorf("object %d with scale %v: %w", obj, pose.Scale, ErrNonUniformSphere)
	}
	return nil
}

func (w *World) valid(e types.Entity) bool {
	return e >= 0 && int(e) < w.bvh.NumLeaves()
}

// NumEntities returns the number of entities.
func (w *World) NumEntities() int { return w.bvh.NumLeaves() }

func (w *World) Object(e types.Entity) narrowphase.ObjectID { return w.entityObjects[e] }

func (w *World) Pose(e types.Entity) types.Pose { return w.poses[e] }

// WorldAABB returns the bounds of an entity at its current pose.
func (w *World) WorldAABB(e types.Entity) geo.AABB {
	pose := w.poses[e]
	return w.objects.AABB(w.entityObjects[e]).ApplyTRS(pose.Position, pose.Rotation, pose.Scale)
}

// UpdateBroadphase refreshes the leaf bounds from the current poses. The
// tree is rebuilt when entities were added since the last update and
// refitted otherwise.
func (w *World) UpdateBroadphase() error {
	numEntities := w.NumEntities()
	for e := 0; e < numEntities; e++ {
		entity := types.Entity(e)
		if err := w.bvh.SetLeaf(int32(e), entity, w.WorldAABB(entity)); err != nil {
			return err
		}
	}

	if numEntities != w.builtLeaves {
		w.bvh.Build()
		w.builtLeaves = numEntities
		return nil
	}
	return w.bvh.Refit()
}

// FindOverlaps reports the entities whose broadphase bounds overlap box.
func (w *World) FindOverlaps(box geo.AABB, visit func(types.Entity)) error {
	return w.bvh.FindOverlaps(box, visit)
}

// CandidatePairs appends the broadphase pairs to dst. Pairs of two planes
// are never produced since no test exists for them.
func (w *World) CandidatePairs(dst []narrowphase.Pair) ([]narrowphase.Pair, error) {
	err := w.bvh.FindOverlappingPairs(func(a, b types.Entity) {
		if w.isPlane(a) && w.isPlane(b) {
			return
		}
		dst = append(dst, narrowphase.Pair{A: a, B: b})
	})
	return dst, err
}

func (w *World) isPlane(e types.Entity) bool {
	return w.objects.Primitive(w.entityObjects[e]).Type() == narrowphase.PlaneType
}
