package scene

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/shacklettbp/miwe/geo"
	"github.com/shacklettbp/miwe/types"
)

// Read a convex hull from a wavefront object file. Only vertex ("v") and
// face ("f") records are used; faces may have any number of vertices but
// must be planar and wind counter-clockwise seen from outside.
func readWavefrontHull(res *Resource) (*geo.HalfEdgeMesh, error) {
	var (
		vertices []types.Vec3
		faces    [][]int32
		lineNum  int
	)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return nil, emitError(res.Path(), lineNum, err)
			}
			vertices = append(vertices, v)
		case "f":
			face, err := parseFace(lineTokens, len(vertices))
			if err != nil {
				return nil, emitError(res.Path(), lineNum, err)
			}
			faces = append(faces, face)
		case "o", "g", "s", "vn", "vt", "usemtl", "mtllib":
			// Not relevant for collision geometry
		default:
			return nil, emitError(res.Path(), lineNum, fmt.Errorf(`unsupported record "%s"`, lineTokens[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	mesh, err := geo.NewHalfEdgeMesh(vertices, faces)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path(), err)
	}
	return mesh, nil
}

func emitError(file string, line int, err error) error {
	return fmt.Errorf("%w: [%s: %d] %v", ErrSyntax, file, line, err)
}

// Parse a face record. Each argument may carry tex/normal indices
// ("v/vt/vn") which are ignored.
func parseFace(lineTokens []string, numVertices int) ([]int32, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	face := make([]int32, 0, len(lineTokens)-1)
	for arg, token := range lineTokens[1:] {
		vToken := strings.SplitN(token, "/", 2)[0]
		index, err := selectVertexIndex(vToken, numVertices)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex index for face argument %d: %v", arg, err)
		}
		face = append(face, int32(index))
	}
	return face, nil
}

// Map a 1-based or negative (relative to the end) vertex index to an
// offset into the vertex list.
func selectVertexIndex(indexToken string, numVertices int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	offset := int(index) - 1
	if index < 0 {
		offset = numVertices + int(index)
	}
	if offset < 0 || offset >= numVertices {
		return -1, fmt.Errorf("index %d out of bounds", index)
	}
	return offset, nil
}

func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
