package narrowphase

import (
	"fmt"

	"github.com/shacklettbp/miwe/arena"
	"github.com/shacklettbp/miwe/contact"
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/log"
	"github.com/shacklettbp/miwe/types"
)

var logger = log.New("narrowphase")

// ObjectID indexes the object table.
type ObjectID int32

// EntityStore provides the per entity state read by a test. Implementations
// must allow concurrent reads while a pass runs.
type EntityStore interface {
	Object(e types.Entity) ObjectID
	Pose(e types.Entity) types.Pose
}

// ObjectTable provides the shared read-only primitive data.
type ObjectTable interface {
	Primitive(obj ObjectID) Primitive
	AABB(obj ObjectID) geo.AABB
}

// Pair is a candidate pair produced by the broadphase.
type Pair struct {
	A, B types.Entity
}

// Hooks observe the dispatcher. Callbacks run on the worker goroutines and
// must be safe for concurrent use.
type Hooks struct {
	// Invoked when the world bounds of a pair no longer overlap.
	OnEarlyExit func(Pair)

	// Invoked with the canonical pair order right before a test runs.
	OnTest func(Pair, PairTest)
}

// Narrowphase runs exact tests for candidate pairs and appends the results
// to a shared contact buffer. Run may be called concurrently as long as each
// goroutine supplies its own allocator.
type Narrowphase struct {
	entities EntityStore
	objects  ObjectTable
	contacts *contact.Buffer
	events   *contact.EventBuffer
	hooks    Hooks
}

// New creates a dispatcher. The event buffer may be nil.
func New(entities EntityStore, objects ObjectTable, contacts *contact.Buffer, events *contact.EventBuffer) *Narrowphase {
	return &Narrowphase{
		entities: entities,
		objects:  objects,
		contacts: contacts,
		events:   events,
	}
}

// SetHooks installs observation callbacks. It must not be called while a
// pass is running.
func (np *Narrowphase) SetHooks(hooks Hooks) {
	np.hooks = hooks
}

type body struct {
	entity types.Entity
	obj    ObjectID
	prim   Primitive
	pose   types.Pose
}

// Run tests a single candidate pair. Pairs that turn out not to touch are
// not an error. Errors signal a broken precondition and the caller must
// abort the pass.
func (np *Narrowphase) Run(pair Pair, alloc arena.Allocator) error {
	a := np.fetch(pair.A)
	b := np.fetch(pair.B)
	if a.prim.Type() > b.prim.Type() {
		a, b = b, a
	}

	aBounds := np.objects.AABB(a.obj).ApplyTRS(a.pose.Position, a.pose.Rotation, a.pose.Scale)
	bBounds := np.objects.AABB(b.obj).ApplyTRS(b.pose.Position, b.pose.Rotation, b.pose.Scale)
	if !aBounds.Overlaps(bBounds) {
		logger.Debugf("early AABB exit for pair (%d, %d)", pair.A, pair.B)
		if np.hooks.OnEarlyExit != nil {
			np.hooks.OnEarlyExit(pair)
		}
		return nil
	}

	test := TestFor(a.prim.Type(), b.prim.Type())
	if np.hooks.OnTest != nil {
		np.hooks.OnTest(Pair{A: a.entity, B: b.entity}, test)
	}

	var err error
	switch test {
	case SphereSphere:
		err = np.sphereSphere(pair, a, b)
	case HullHull:
		err = np.hullHull(a, b, alloc)
	case SphereHull:
		err = ErrUnimplemented
	case PlanePlane:
		err = ErrUnreachable
	case SpherePlane:
		err = np.spherePlane(a, b)
	case HullPlane:
		err = np.hullPlane(a, b, alloc)
	default:
		err = ErrUnknownPrimitive
	}

	if err != nil {
		logger.Debugf("%s test for pair (%d, %d) failed: %v", test, pair.A, pair.B, err)
		return fmt.Errorf("%s pair (%d, %d): %w", test, pair.A, pair.B, err)
	}
	return nil
}

func (np *Narrowphase) fetch(e types.Entity) body {
	obj := np.entities.Object(e)
	return body{
		entity: e,
		obj:    obj,
		prim:   np.objects.Primitive(obj),
		pose:   np.entities.Pose(e),
	}
}

func (np *Narrowphase) sphereSphere(pair Pair, a, b body) error {
	sphereA, okA := a.prim.(Sphere)
	sphereB, okB := b.prim.(Sphere)
	if !okA || !okB {
		return ErrPrimitiveMismatch
	}

	c, hit := SphereSphereContact(
		a.pose.Position, sphereRadius(sphereA, a.pose),
		b.pose.Position, sphereRadius(sphereB, b.pose),
	)
	if !hit {
		return nil
	}

	c.Ref, c.Alt = a.entity, b.entity
	if err := np.contacts.Append(c); err != nil {
		return err
	}
	if np.events != nil {
		return np.events.Append(contact.Event{A: pair.A, B: pair.B})
	}
	return nil
}

func (np *Narrowphase) spherePlane(a, b body) error {
	sphere, okA := a.prim.(Sphere)
	_, okB := b.prim.(Plane)
	if !okA || !okB {
		return ErrPrimitiveMismatch
	}

	c, hit := SpherePlaneContact(a.pose.Position, sphereRadius(sphere, a.pose), worldPlane(b.pose))
	if !hit {
		return nil
	}

	c.Ref, c.Alt = b.entity, a.entity
	return np.contacts.Append(c)
}

func (np *Narrowphase) hullHull(a, b body, alloc arena.Allocator) error {
	hullA, okA := a.prim.(Hull)
	hullB, okB := b.prim.(Hull)
	if !okA || !okB {
		return ErrPrimitiveMismatch
	}
	if alloc == nil {
		return ErrNoAllocator
	}

	stateA, err := MakeHullState(hullA.Mesh, a.pose, alloc)
	if err != nil {
		return err
	}
	stateB, err := MakeHullState(hullB.Mesh, b.pose, alloc)
	if err != nil {
		return err
	}

	manifold, err := DoSAT(&stateA, &stateB, alloc, IdentityFrame())
	if err != nil || manifold.NumPoints == 0 {
		return err
	}
	return np.contacts.Append(manifold.Contact(a.entity, b.entity))
}

func (np *Narrowphase) hullPlane(a, b body, alloc arena.Allocator) error {
	hull, okA := a.prim.(Hull)
	_, okB := b.prim.(Plane)
	if !okA || !okB {
		return ErrPrimitiveMismatch
	}
	if alloc == nil {
		return ErrNoAllocator
	}

	state, err := MakeHullState(hull.Mesh, a.pose, alloc)
	if err != nil {
		return err
	}

	manifold, err := DoSATPlane(worldPlane(b.pose), &state, alloc, IdentityFrame())
	if err != nil || manifold.NumPoints == 0 {
		return err
	}
	return np.contacts.Append(manifold.Contact(a.entity, b.entity))
}

// Spheres only support uniform scale.
func sphereRadius(s Sphere, pose types.Pose) float32 {
	return s.Radius * pose.Scale.D0
}

// The plane of a plane entity: its rotation applied to +Z through its
// position.
func worldPlane(pose types.Pose) geo.Plane {
	normal := pose.Rotation.Rotate(types.XYZ(0, 0, 1))
	return geo.PlaneFromPoint(normal, pose.Position)
}
