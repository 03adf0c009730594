package scene

import (
	"fmt"
	"time"

	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/log"
	"github.com/shacklettbp/miwe/narrowphase"
	"github.com/shacklettbp/miwe/types"
	"github.com/shacklettbp/miwe/world"
	"gopkg.in/yaml.v3"
)

var logger = log.New("scene")

// Description is the YAML layout of a scene file.
type Description struct {
	Objects  []ObjectDesc `yaml:"objects"`
	Entities []EntityDesc `yaml:"entities"`
}

// ObjectDesc defines a named primitive. Exactly one shape field is set.
type ObjectDesc struct {
	Name   string      `yaml:"name"`
	Sphere *SphereDesc `yaml:"sphere,omitempty"`
	Box    *BoxDesc    `yaml:"box,omitempty"`
	Hull   *HullDesc   `yaml:"hull,omitempty"`
	Plane  bool        `yaml:"plane,omitempty"`

	// Path to a wavefront file holding a hull, relative to the scene.
	Mesh string `yaml:"mesh,omitempty"`
}

type SphereDesc struct {
	Radius float32 `yaml:"radius"`
}

type BoxDesc struct {
	HalfExtents [3]float32 `yaml:"half_extents"`
}

type HullDesc struct {
	Vertices [][3]float32 `yaml:"vertices"`
	Faces    [][]int32    `yaml:"faces"`
}

// EntityDesc places an instance of an object.
type EntityDesc struct {
	Name     string        `yaml:"name,omitempty"`
	Object   string        `yaml:"object"`
	Position [3]float32    `yaml:"position,omitempty"`
	Rotation *RotationDesc `yaml:"rotation,omitempty"`

	// Either a single uniform factor or one factor per axis.
	Scale []float32 `yaml:"scale,omitempty"`
}

type RotationDesc struct {
	Axis    [3]float32 `yaml:"axis"`
	Degrees float32    `yaml:"degrees"`
}

// Scene is a world populated from a description.
type Scene struct {
	World *world.World

	// Object ids by name and the names of all objects and entities in
	// creation order.
	Objects     map[string]narrowphase.ObjectID
	ObjectNames []string
	EntityNames []string
}

// ReadScene loads a scene from a local path or an http(s) url. When
// maxEntities is not positive the world is sized to fit the scene exactly.
func ReadScene(path string, maxEntities int) (*Scene, error) {
	res, err := NewResource(path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res, maxEntities)
}

// Read loads a scene from an open resource. Mesh files are resolved
// relative to it.
func Read(res *Resource, maxEntities int) (*Scene, error) {
	logger.Noticef(`parsing scene from "%s"`, res.Path())
	start := time.Now()

	var desc Description
	dec := yaml.NewDecoder(res)
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, res.Path(), err)
	}

	sc, err := desc.build(res, maxEntities)
	if err != nil {
		return nil, err
	}

	logger.Noticef(
		"parsed scene with %d objects and %d entities in %d ms",
		len(sc.ObjectNames), len(sc.EntityNames), time.Since(start).Nanoseconds()/1e6,
	)
	return sc, nil
}

func (d *Description) build(res *Resource, maxEntities int) (*Scene, error) {
	if maxEntities <= 0 {
		maxEntities = len(d.Entities)
	}

	objects := world.NewObjectManager()
	sc := &Scene{
		Objects: make(map[string]narrowphase.ObjectID, len(d.Objects)),
	}

	for idx, od := range d.Objects {
		if _, exists := sc.Objects[od.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateObject, od.Name)
		}

		obj, err := od.register(objects, res)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", idx, od.Name, err)
		}
		sc.Objects[od.Name] = obj
		sc.ObjectNames = append(sc.ObjectNames, od.Name)
	}

	sc.World = world.New(objects, maxEntities)
	for idx, ed := range d.Entities {
		obj, exists := sc.Objects[ed.Object]
		if !exists {
			return nil, fmt.Errorf("entity %d: %w: %q", idx, ErrUnknownObject, ed.Object)
		}

		pose, err := ed.pose()
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", idx, err)
		}
		if _, err = sc.World.AddEntity(obj, pose); err != nil {
			return nil, fmt.Errorf("entity %d: %w", idx, err)
		}

		name := ed.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", ed.Object, idx)
		}
		sc.EntityNames = append(sc.EntityNames, name)
	}

	return sc, nil
}

func (od *ObjectDesc) register(objects *world.ObjectManager, res *Resource) (narrowphase.ObjectID, error) {
	kinds := 0
	for _, set := range []bool{od.Sphere != nil, od.Box != nil, od.Hull != nil, od.Mesh != "", od.Plane} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return -1, ErrObjectKind
	}

	switch {
	case od.Sphere != nil:
		return objects.AddSphere(od.Sphere.Radius)
	case od.Box != nil:
		return objects.AddBox(types.Vec3(od.Box.HalfExtents))
	case od.Hull != nil:
		vertices := make([]types.Vec3, len(od.Hull.Vertices))
		for i, v := range od.Hull.Vertices {
			vertices[i] = types.Vec3(v)
		}
		mesh, err := geo.NewHalfEdgeMesh(vertices, od.Hull.Faces)
		if err != nil {
			return -1, err
		}
		return objects.AddHull(mesh)
	case od.Mesh != "":
		meshRes, err := NewResource(od.Mesh, res)
		if err != nil {
			return -1, err
		}
		defer meshRes.Close()

		mesh, err := readWavefrontHull(meshRes)
		if err != nil {
			return -1, err
		}
		return objects.AddHull(mesh)
	}
	return objects.AddPlane(), nil
}

func (ed *EntityDesc) pose() (types.Pose, error) {
	pose := types.PoseAt(types.Vec3(ed.Position))

	if ed.Rotation != nil {
		axis := types.Vec3(ed.Rotation.Axis)
		if axis.Len() == 0 {
			return pose, fmt.Errorf("%w: rotation axis must not be zero", ErrSyntax)
		}
		pose.Rotation = types.QuatFromAxisDegrees(axis, ed.Rotation.Degrees)
	}

	switch len(ed.Scale) {
	case 0:
	case 1:
		pose.Scale = types.DiagUniform(ed.Scale[0])
	case 3:
		pose.Scale = types.Diag3x3{D0: ed.Scale[0], D1: ed.Scale[1], D2: ed.Scale[2]}
	default:
		return pose, fmt.Errorf("%w: scale needs 1 or 3 components; got %d", ErrSyntax, len(ed.Scale))
	}
	return pose, nil
}
