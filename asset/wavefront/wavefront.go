// Package wavefront reads triangle soups from wavefront object files. Only
// the subset of the format needed to feed the SBVH builder is supported:
// vertex, face and usemtl statements. Texture coordinates, normals and
// material libraries are skipped.
package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/achilleasa/go-sbvh/geometry"
	"github.com/achilleasa/go-sbvh/log"
	"github.com/achilleasa/go-sbvh/types"
)

var defaultKd = types.Vec3{0.7, 0.7, 0.7}

type objReader struct {
	logger log.Logger

	vertexList []types.Vec3
	triangles  []geometry.Geometry

	// A map of material names to shared material instances. Surfaces not
	// selecting a material share a grey default.
	materials   map[string]*geometry.Material
	curMaterial *geometry.Material
}

// ReadFile parses a wavefront object file from disk.
func ReadFile(path string) ([]geometry.Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavefront: %s", err.Error())
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses a wavefront object stream. The name argument is only used to
// tag parse errors with their origin.
func Read(r io.Reader, name string) ([]geometry.Geometry, error) {
	reader := &objReader{
		logger:    log.New("wavefront reader"),
		materials: make(map[string]*geometry.Material),
	}
	return reader.parse(r, name)
}

func (r *objReader) parse(in io.Reader, file string) ([]geometry.Geometry, error) {
	scanner := bufio.NewScanner(in)

	var lineNum int
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
				return nil, r.emitError(file, lineNum, err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "f":
			if err := r.parseFace(lineTokens); err != nil {
				return nil, r.emitError(file, lineNum, err.Error())
			}
		case "usemtl":
			if len(lineTokens) != 2 {
				return nil, r.emitError(file, lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			r.curMaterial = r.material(lineTokens[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, r.emitError(file, lineNum, err.Error())
	}

	r.logger.Infof("parsed %d vertices, %d triangles from %s", len(r.vertexList), len(r.triangles), file)
	return r.triangles, nil
}

// Parse a face definition. Triangular and quad faces are supported; quads
// are triangulated. Face arguments may carry uv/normal indices after a
// slash; only the vertex index is used. Indices start from 1 and may be
// negative to indicate an offset off the end of the vertex list.
func (r *objReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.SplitN(lineTokens[arg+1], "/", 2)
		index, err := strconv.Atoi(vTokens[0])
		if err != nil {
			return fmt.Errorf("could not parse vertex index for face argument %d: %s", arg, err.Error())
		}

		switch {
		case index > 0 && index <= len(r.vertexList):
			vertices[arg] = r.vertexList[index-1]
		case index < 0 && len(r.vertexList)+index >= 0:
			vertices[arg] = r.vertexList[len(r.vertexList)+index]
		default:
			return fmt.Errorf("vertex index %d for face argument %d is out of bounds", index, arg)
		}
	}

	if r.curMaterial == nil {
		r.curMaterial = r.material("")
	}

	r.triangles = append(r.triangles, geometry.NewTriangle(vertices[0], vertices[1], vertices[2], r.curMaterial))
	if len(lineTokens) == 5 {
		r.triangles = append(r.triangles, geometry.NewTriangle(vertices[0], vertices[2], vertices[3], r.curMaterial))
	}
	return nil
}

// Fetch a shared material instance by name, creating it on first use.
func (r *objReader) material(name string) *geometry.Material {
	mat, exists := r.materials[name]
	if !exists {
		mat = &geometry.Material{Name: name, Kd: defaultKd}
		r.materials[name] = mat
	}
	return mat
}

// Generate an error message tagged with the offending file and line.
func (r *objReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("[%s: %d] error: %s", file, line, msg)
}

func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var v types.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec3{}, err
		}
		v[i] = float32(val)
	}
	return v, nil
}
