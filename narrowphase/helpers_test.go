package narrowphase

import (
	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

const planeExtent = 1e4

// An in-memory object table and entity store.
type testScene struct {
	prims []Primitive
	aabbs []geo.AABB

	objects []ObjectID
	poses   []types.Pose
}

func (s *testScene) Primitive(obj ObjectID) Primitive { return s.prims[obj] }

func (s *testScene) AABB(obj ObjectID) geo.AABB { return s.aabbs[obj] }

func (s *testScene) Object(e types.Entity) ObjectID { return s.objects[e] }

func (s *testScene) Pose(e types.Entity) types.Pose { return s.poses[e] }

func (s *testScene) addObject(prim Primitive, bounds geo.AABB) ObjectID {
	s.prims = append(s.prims, prim)
	s.aabbs = append(s.aabbs, bounds)
	return ObjectID(len(s.prims) - 1)
}

func (s *testScene) addSphere(radius float32) ObjectID {
	r := types.XYZ(radius, radius, radius)
	return s.addObject(Sphere{Radius: radius}, geo.AABB{Min: r.Mul(-1), Max: r})
}

func (s *testScene) addBox(halfExtents types.Vec3) ObjectID {
	mesh := geo.NewBoxMesh(halfExtents)
	return s.addObject(Hull{Mesh: mesh}, mesh.AABB())
}

func (s *testScene) addPlane() ObjectID {
	return s.addObject(Plane{}, geo.AABB{
		Min: types.XYZ(-planeExtent, -planeExtent, -planeExtent),
		Max: types.XYZ(planeExtent, planeExtent, 0),
	})
}

func (s *testScene) addEntity(obj ObjectID, pose types.Pose) types.Entity {
	s.objects = append(s.objects, obj)
	s.poses = append(s.poses, pose)
	return types.Entity(len(s.objects) - 1)
}

func rotatedPose(pos types.Vec3, axis types.Vec3, degrees float32) types.Pose {
	pose := types.PoseAt(pos)
	pose.Rotation = types.QuatFromAxisDegrees(axis, degrees)
	return pose
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
