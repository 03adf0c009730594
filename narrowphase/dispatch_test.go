package narrowphase

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/shacklettbp/miwe/arena"
	"github.com/shacklettbp/miwe/contact"
	"github.com/shacklettbp/miwe/types"
)

func TestDispatchKeysAreUnique(t *testing.T) {
	tags := []PrimitiveType{SphereType, HullType, PlaneType}
	exp := map[[2]PrimitiveType]PairTest{
		{SphereType, SphereType}: SphereSphere,
		{HullType, HullType}:     HullHull,
		{SphereType, HullType}:   SphereHull,
		{PlaneType, PlaneType}:   PlanePlane,
		{SphereType, PlaneType}:  SpherePlane,
		{HullType, PlaneType}:    HullPlane,
	}

	seen := make(map[PairTest][2]PrimitiveType)
	for i, a := range tags {
		for _, b := range tags[i:] {
			key := TestFor(a, b)
			if key < 1 || key > 6 {
				t.Fatalf("expected key for %s/%s to be in [1, 6]; got %d", a, b, key)
			}
			if other, dup := seen[key]; dup {
				t.Fatalf("expected distinct keys; %s/%s and %s/%s both map to %d", a, b, other[0], other[1], key)
			}
			seen[key] = [2]PrimitiveType{a, b}

			if key != exp[[2]PrimitiveType{a, b}] {
				t.Fatalf("expected %s/%s to map to %s; got %s", a, b, exp[[2]PrimitiveType{a, b}], key)
			}
			if TestFor(b, a) != key {
				t.Fatalf("expected key for %s/%s to be order independent", a, b)
			}
		}
	}

	if len(seen) != 6 {
		t.Fatalf("expected 6 distinct keys; got %d", len(seen))
	}
}

func TestSphereSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		sc := &testScene{}
		obj := sc.addSphere(1)

		// Centers strictly closer than the sum of the radii.
		dir := types.SafeNormalize(types.XYZ(rng.Float32()-0.5, rng.Float32()-0.5, rng.Float32()-0.5))
		if dir.Len() < 0.5 {
			dir = types.XYZ(1, 0, 0)
		}
		dist := 0.01 + rng.Float32()*1.98
		posA := types.XYZ(rng.Float32()*10, rng.Float32()*10, rng.Float32()*10)
		posB := posA.Add(dir.Mul(dist))

		a := sc.addEntity(obj, types.PoseAt(posA))
		b := sc.addEntity(obj, types.PoseAt(posB))

		contacts := contact.NewBuffer(4)
		events := contact.NewEventBuffer(4)
		np := New(sc, sc, contacts, events)
		if err := np.Run(Pair{A: a, B: b}, nil); err != nil {
			t.Fatal(err)
		}

		if contacts.Len() != 1 {
			t.Fatalf("[spec %d] expected exactly 1 contact; got %d", i, contacts.Len())
		}
		c := contacts.Contacts()[0]
		if c.NumPoints != 1 {
			t.Fatalf("[spec %d] expected 1 contact point; got %d", i, c.NumPoints)
		}
		if l := c.Normal.Len(); absf(l-1) > 1e-4 {
			t.Fatalf("[spec %d] expected unit normal; got length %f", i, l)
		}

		realDist := posB.Sub(posA).Len()
		expDepth := (2 - realDist) / 2
		if _, depth := c.Point(0); absf(depth-expDepth) > 1e-4 {
			t.Fatalf("[spec %d] expected depth %f; got %f", i, expDepth, depth)
		}

		if got := events.Events(); len(got) != 1 || got[0] != (contact.Event{A: a, B: b}) {
			t.Fatalf("[spec %d] expected one collision event for (%d, %d); got %v", i, a, b, got)
		}
	}
}

func TestSphereSphereCoincidentCenters(t *testing.T) {
	c, hit := SphereSphereContact(types.XYZ(1, 1, 1), 0.5, types.XYZ(1, 1, 1), 0.5)
	if !hit {
		t.Fatal("expected coincident spheres to touch")
	}
	if c.Normal != types.XYZ(0, 0, 1) {
		t.Fatalf("expected fallback normal (0, 0, 1); got %v", c.Normal)
	}
	if _, depth := c.Point(0); depth != 0.5 {
		t.Fatalf("expected depth 0.5; got %f", depth)
	}

	if _, hit = SphereSphereContact(types.XYZ(0, 0, 0), 1, types.XYZ(2, 0, 0), 1); hit {
		t.Fatal("expected touching spheres with no overlap to report no contact")
	}
}

func TestSpherePlaneScenario(t *testing.T) {
	sc := &testScene{}
	sphere := sc.addEntity(sc.addSphere(1), types.IdentityPose())
	plane := sc.addEntity(sc.addPlane(), types.IdentityPose())

	contacts := contact.NewBuffer(4)
	np := New(sc, sc, contacts, nil)

	// Pass the plane first to exercise canonical ordering.
	if err := np.Run(Pair{A: plane, B: sphere}, nil); err != nil {
		t.Fatal(err)
	}

	if contacts.Len() != 1 {
		t.Fatalf("expected 1 contact; got %d", contacts.Len())
	}
	c := contacts.Contacts()[0]
	if c.Ref != plane || c.Alt != sphere {
		t.Fatalf("expected the plane to be the reference body; got ref %d alt %d", c.Ref, c.Alt)
	}
	if c.Normal != types.XYZ(0, 0, 1) {
		t.Fatalf("expected normal (0, 0, 1); got %v", c.Normal)
	}
	point, depth := c.Point(0)
	if depth != 1 {
		t.Fatalf("expected depth 1; got %f", depth)
	}
	if point != types.XYZ(0, 0, 0) {
		t.Fatalf("expected contact point at the origin; got %v", point)
	}
}

func TestSpherePlaneTiltedPlane(t *testing.T) {
	sc := &testScene{}
	sphere := sc.addEntity(sc.addSphere(1), types.PoseAt(types.XYZ(0, 0.5, 0)))
	plane := sc.addEntity(sc.addPlane(), rotatedPose(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), -90))

	contacts := contact.NewBuffer(4)
	if err := New(sc, sc, contacts, nil).Run(Pair{A: sphere, B: plane}, nil); err != nil {
		t.Fatal(err)
	}
	if contacts.Len() != 1 {
		t.Fatalf("expected 1 contact; got %d", contacts.Len())
	}

	c := contacts.Contacts()[0]
	if !types.ApproxEqual(c.Normal, types.XYZ(0, 1, 0), 1e-5) {
		t.Fatalf("expected normal (0, 1, 0); got %v", c.Normal)
	}
	if _, depth := c.Point(0); absf(depth-0.5) > 1e-5 {
		t.Fatalf("expected depth 0.5; got %f", depth)
	}
}

func TestBoxBoxScenario(t *testing.T) {
	sc := &testScene{}
	box := sc.addBox(types.XYZ(1, 1, 1))
	a := sc.addEntity(box, types.PoseAt(types.XYZ(0, 0, 0)))
	b := sc.addEntity(box, types.PoseAt(types.XYZ(0, 0, 1.5)))

	alloc, _ := arena.New(arena.Heap, 64)
	contacts := contact.NewBuffer(4)
	var tests []PairTest
	np := New(sc, sc, contacts, nil)
	np.SetHooks(Hooks{OnTest: func(_ Pair, test PairTest) { tests = append(tests, test) }})

	if err := np.Run(Pair{A: a, B: b}, alloc); err != nil {
		t.Fatal(err)
	}
	if len(tests) != 1 || tests[0] != HullHull {
		t.Fatalf("expected a single hull/hull test; got %v", tests)
	}

	if contacts.Len() != 1 {
		t.Fatalf("expected 1 contact; got %d", contacts.Len())
	}
	c := contacts.Contacts()[0]
	if c.NumPoints != 4 {
		t.Fatalf("expected 4 contact points; got %d", c.NumPoints)
	}
	if absf(c.Normal[2]) != 1 || c.Normal[0] != 0 || c.Normal[1] != 0 {
		t.Fatalf("expected normal (0, 0, +-1); got %v", c.Normal)
	}
	for i := 0; i < int(c.NumPoints); i++ {
		if _, depth := c.Point(i); absf(depth-0.5) > 1e-5 {
			t.Fatalf("expected point %d to have depth 0.5; got %f", i, depth)
		}
	}

	// Equal face separations make the second box the reference, so the
	// normal points from it towards the first box.
	if c.Ref != b || c.Normal != types.XYZ(0, 0, -1) {
		t.Fatalf("expected ref %d with normal (0, 0, -1); got ref %d with %v", b, c.Ref, c.Normal)
	}
}

func TestHullPlaneScenario(t *testing.T) {
	sc := &testScene{}
	box := sc.addEntity(sc.addBox(types.XYZ(1, 1, 1)), types.PoseAt(types.XYZ(3, -2, 0.75)))
	ground := sc.addEntity(sc.addPlane(), types.IdentityPose())

	alloc, _ := arena.New(arena.Fixed, 64)
	contacts := contact.NewBuffer(4)
	if err := New(sc, sc, contacts, nil).Run(Pair{A: ground, B: box}, alloc); err != nil {
		t.Fatal(err)
	}

	if contacts.Len() != 1 {
		t.Fatalf("expected 1 contact; got %d", contacts.Len())
	}
	c := contacts.Contacts()[0]
	if c.Ref != ground || c.Alt != box {
		t.Fatalf("expected the plane to be the reference body; got ref %d alt %d", c.Ref, c.Alt)
	}
	if c.NumPoints != 4 {
		t.Fatalf("expected 4 contact points; got %d", c.NumPoints)
	}
	if c.Normal != types.XYZ(0, 0, 1) {
		t.Fatalf("expected normal (0, 0, 1); got %v", c.Normal)
	}
	for i := 0; i < int(c.NumPoints); i++ {
		point, depth := c.Point(i)
		if absf(depth-0.25) > 1e-5 {
			t.Fatalf("expected point %d to have depth 0.25; got %f", i, depth)
		}
		if point[2] != 0 {
			t.Fatalf("expected point %d to lie on the plane; got %v", i, point)
		}
	}
}

func TestHullPlaneTiltedHullCountsOnlyPenetratingPoints(t *testing.T) {
	sc := &testScene{}
	// Tilted so only one bottom edge dips below the ground.
	pose := rotatedPose(types.XYZ(0, 0, 1.1), types.XYZ(1, 0, 0), 20)
	box := sc.addEntity(sc.addBox(types.XYZ(1, 1, 1)), pose)
	ground := sc.addEntity(sc.addPlane(), types.IdentityPose())

	alloc, _ := arena.New(arena.Heap, 64)
	contacts := contact.NewBuffer(4)
	if err := New(sc, sc, contacts, nil).Run(Pair{A: box, B: ground}, alloc); err != nil {
		t.Fatal(err)
	}
	if contacts.Len() != 1 {
		t.Fatalf("expected 1 contact; got %d", contacts.Len())
	}

	c := contacts.Contacts()[0]
	if c.NumPoints != 2 {
		t.Fatalf("expected 2 penetrating points; got %d", c.NumPoints)
	}
	for i := 0; i < int(c.NumPoints); i++ {
		if _, depth := c.Point(i); depth <= 0 {
			t.Fatalf("expected point %d to have a positive depth; got %f", i, depth)
		}
	}
}

func TestEarlyExitSkipsTests(t *testing.T) {
	sc := &testScene{}
	box := sc.addBox(types.XYZ(1, 1, 1))
	a := sc.addEntity(box, types.PoseAt(types.XYZ(0, 0, 0)))
	b := sc.addEntity(box, types.PoseAt(types.XYZ(5, 0, 0)))

	var earlyExits, tests int
	alloc, _ := arena.New(arena.Heap, 64)
	contacts := contact.NewBuffer(4)
	np := New(sc, sc, contacts, nil)
	np.SetHooks(Hooks{
		OnEarlyExit: func(Pair) { earlyExits++ },
		OnTest:      func(Pair, PairTest) { tests++ },
	})

	if err := np.Run(Pair{A: a, B: b}, alloc); err != nil {
		t.Fatal(err)
	}

	if earlyExits != 1 || tests != 0 {
		t.Fatalf("expected 1 early exit and no tests; got %d early exits and %d tests", earlyExits, tests)
	}
	if contacts.Len() != 0 {
		t.Fatalf("expected no contacts; got %d", contacts.Len())
	}
	if alloc.Used() != 0 {
		t.Fatalf("expected no scratch memory to be used; got %d elements", alloc.Used())
	}
}

func TestUnsupportedPairs(t *testing.T) {
	sc := &testScene{}
	sphere := sc.addEntity(sc.addSphere(1), types.IdentityPose())
	box := sc.addEntity(sc.addBox(types.XYZ(1, 1, 1)), types.IdentityPose())
	plane1 := sc.addEntity(sc.addPlane(), types.IdentityPose())
	plane2 := sc.addEntity(sc.addPlane(), types.IdentityPose())

	type spec struct {
		pair   Pair
		expErr error
	}
	specs := []spec{
		{Pair{A: box, B: sphere}, ErrUnimplemented},
		{Pair{A: plane1, B: plane2}, ErrUnreachable},
	}

	alloc, _ := arena.New(arena.Heap, 64)
	np := New(sc, sc, contact.NewBuffer(4), nil)
	for index, s := range specs {
		if err := np.Run(s.pair, alloc); !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestContactBufferOverflowIsReported(t *testing.T) {
	sc := &testScene{}
	obj := sc.addSphere(1)
	a := sc.addEntity(obj, types.PoseAt(types.XYZ(0, 0, 0)))
	b := sc.addEntity(obj, types.PoseAt(types.XYZ(1, 0, 0)))
	c := sc.addEntity(obj, types.PoseAt(types.XYZ(0, 1, 0)))

	np := New(sc, sc, contact.NewBuffer(1), nil)
	if err := np.Run(Pair{A: a, B: b}, nil); err != nil {
		t.Fatal(err)
	}
	if err := np.Run(Pair{A: a, B: c}, nil); !errors.Is(err, contact.ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull; got %v", err)
	}
}

func TestHullHullNormalsAreUnitLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sc := &testScene{}
	box := sc.addBox(types.XYZ(1, 0.5, 0.75))

	alloc, _ := arena.New(arena.Heap, 256)
	for i := 0; i < 300; i++ {
		axis := types.XYZ(rng.Float32()-0.5, rng.Float32()-0.5, rng.Float32()+0.1)
		poseA := rotatedPose(types.XYZ(0, 0, 0), axis, rng.Float32()*360)
		poseB := rotatedPose(types.XYZ(rng.Float32()*3-1.5, rng.Float32()*3-1.5, rng.Float32()*3-1.5), axis.Cross(types.XYZ(1, 0, 0)), rng.Float32()*360)
		a := sc.addEntity(box, poseA)
		b := sc.addEntity(box, poseB)

		contacts := contact.NewBuffer(1)
		if err := New(sc, sc, contacts, nil).Run(Pair{A: a, B: b}, alloc); err != nil {
			t.Fatal(err)
		}
		alloc.Reset()

		for _, c := range contacts.Contacts() {
			if c.NumPoints < 1 || c.NumPoints > 4 {
				t.Fatalf("[spec %d] expected 1 to 4 points; got %d", i, c.NumPoints)
			}
			if l := c.Normal.Len(); math.Abs(float64(l-1)) > 1e-4 {
				t.Fatalf("[spec %d] expected unit normal; got length %f", i, l)
			}
			for p := 0; p < int(c.NumPoints); p++ {
				if _, depth := c.Point(p); depth < 0 {
					t.Fatalf("[spec %d] expected non-negative depth; got %f", i, depth)
				}
			}
		}
	}
}

func BenchmarkHullHull(b *testing.B) {
	sc := &testScene{}
	box := sc.addBox(types.XYZ(1, 1, 1))
	a := sc.addEntity(box, rotatedPose(types.XYZ(0, 0, 0), types.XYZ(0, 0, 1), 10))
	other := sc.addEntity(box, rotatedPose(types.XYZ(0.3, 0.2, 1.8), types.XYZ(1, 1, 0), 25))

	alloc, _ := arena.New(arena.Heap, 256)
	contacts := contact.NewBuffer(1)
	np := New(sc, sc, contacts, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		contacts.Reset()
		if err := np.Run(Pair{A: a, B: other}, alloc); err != nil {
			b.Fatal(err)
		}
		alloc.Reset()
	}
}
