package scene

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shacklettbp/miwe/narrowphase"
	"github.com/shacklettbp/miwe/types"
	"github.com/shacklettbp/miwe/world"
)

const crateObj = `# unit crate
o crate
v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4/1 1/1 5/1 8/1
`

const testScene = `
objects:
  - name: ground
    plane: true
  - name: ball
    sphere: {radius: 0.5}
  - name: brick
    box: {half_extents: [1, 0.5, 0.25]}
  - name: wedge
    hull:
      vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0], [0, 0, 1]]
      faces: [[0, 2, 1], [0, 1, 3], [0, 3, 2], [1, 2, 3]]
  - name: crate
    mesh: crate.obj
entities:
  - object: ground
    name: floor
  - object: crate
    position: [0, 0, 0.9]
    rotation: {axis: [0, 0, 1], degrees: 30}
  - object: ball
    position: [5, 0, 0.4]
    scale: [2]
  - object: brick
    position: [-5, 0, 3]
    scale: [1, 2, 1]
  - object: wedge
    position: [0, 10, 3]
`

func writeTestScene(t *testing.T) string {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "crate.obj"), []byte(crateObj), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func checkTestScene(t *testing.T, sc *Scene) {
	t.Helper()

	expObjects := []string{"ground", "ball", "brick", "wedge", "crate"}
	if strings.Join(sc.ObjectNames, ",") != strings.Join(expObjects, ",") {
		t.Fatalf("expected objects %v; got %v", expObjects, sc.ObjectNames)
	}
	expEntities := []string{"floor", "crate#1", "ball#2", "brick#3", "wedge#4"}
	if strings.Join(sc.EntityNames, ",") != strings.Join(expEntities, ",") {
		t.Fatalf("expected entities %v; got %v", expEntities, sc.EntityNames)
	}

	w := sc.World
	crate := w.Objects().Primitive(sc.Objects["crate"])
	hull, ok := crate.(narrowphase.Hull)
	if !ok || hull.Mesh.NumFaces() != 6 || hull.Mesh.NumEdges() != 12 {
		t.Fatalf("expected the crate to be a box hull; got %#v", crate)
	}
	if got := w.Pose(2).Scale; got != types.DiagUniform(2) {
		t.Fatalf("expected uniform ball scale 2; got %v", got)
	}
	if got := w.Pose(3).Scale; got != (types.Diag3x3{D0: 1, D1: 2, D2: 1}) {
		t.Fatalf("expected brick scale (1, 2, 1); got %v", got)
	}

	// The crate rests in the floor and the scaled ball touches it too.
	opts := world.DefaultOptions()
	opts.NumWorkers = 2
	sys, err := world.NewSystem(w, opts)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := sys.Step()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Contacts != 2 {
		t.Fatalf("expected 2 contacts; got %d", stats.Contacts)
	}
}

func TestReadSceneFromFile(t *testing.T) {
	sc, err := ReadScene(writeTestScene(t), 0)
	if err != nil {
		t.Fatal(err)
	}
	checkTestScene(t, sc)
}

func TestReadSceneOverHttp(t *testing.T) {
	dir := filepath.Dir(writeTestScene(t))
	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer server.Close()

	sc, err := ReadScene(server.URL+"/scene.yaml", 16)
	if err != nil {
		t.Fatal(err)
	}
	checkTestScene(t, sc)

	if _, err = ReadScene(server.URL+"/missing.yaml", 0); !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch; got %v", err)
	}
}

func TestReadSceneErrors(t *testing.T) {
	type spec struct {
		doc    string
		expErr error
	}
	specs := []spec{
		{"objects: [{name: a, sphere: {radius: 1}, plane: true}]", ErrObjectKind},
		{"objects: [{name: a}]", ErrObjectKind},
		{"objects: [{name: a, plane: true}, {name: a, plane: true}]", ErrDuplicateObject},
		{"entities: [{object: nope}]", ErrUnknownObject},
		{"objects: [{name: a, cylinder: {}}]", ErrSyntax},
		{"objects: [{name: a, plane: true}]\nentities: [{object: a, scale: [1, 2]}]", ErrSyntax},
		{"objects: [{name: a, plane: true}]\nentities: [{object: a, rotation: {axis: [0, 0, 0], degrees: 5}}]", ErrSyntax},
		{"objects: [{name: a, sphere: {radius: 1}}]\nentities: [{object: a, scale: [1, 2, 1]}]", world.ErrNonUniformSphere},
		{"objects: [{name: a, sphere: {radius: -1}}]", world.ErrInvalidObject},
		{"objects: [{name: a, mesh: missing.obj}]", os.ErrNotExist},
	}

	for index, s := range specs {
		res := NewResourceFromStream("inline.yaml", strings.NewReader(s.doc))
		if _, err := Read(res, 0); !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestWavefrontHullErrors(t *testing.T) {
	type spec struct {
		doc    string
		expErr string
	}
	specs := []spec{
		{"v 0 0\n", `expected 3 arguments`},
		{"v 0 0 0\nf 1 2\n", `expected at least 3 arguments`},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", `out of bounds`},
		{"vp 1 2 3\n", `unsupported record "vp"`},
	}

	for index, s := range specs {
		_, err := readWavefrontHull(NewResourceFromStream("test.obj", strings.NewReader(s.doc)))
		if !errors.Is(err, ErrSyntax) || !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected syntax error containing %q; got %v", index, s.expErr, err)
		}
	}
}

func TestWavefrontNegativeIndices(t *testing.T) {
	doc := "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 0 0 1\nf -4 -2 -3\nf 1 2 4\nf 1 4 3\nf 2 3 4\n"
	mesh, err := readWavefrontHull(NewResourceFromStream("tet.obj", strings.NewReader(doc)))
	if err != nil {
		t.Fatal(err)
	}
	if mesh.NumFaces() != 4 || mesh.NumEdges() != 6 {
		t.Fatalf("expected a tetrahedron; got %d faces and %d edges", mesh.NumFaces(), mesh.NumEdges())
	}
}
