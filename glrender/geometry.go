package glrender

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// floatsPerVertex is the interleaved stride: position, normal, uv.
const floatsPerVertex = 8

// Geometry is an indexed triangle list.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
}

// Flatten interleaves the vertices into the layout the scene program reads.
func (g *Geometry) Flatten() []float32 {
	data := make([]float32, 0, len(g.Vertices)*floatsPerVertex)
	for _, v := range g.Vertices {
		data = append(data,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1])
	}
	return data
}

// Cube is a unit cube centered at the origin with per-face normals.
func Cube() Geometry {
	faces := []struct {
		normal, u, v mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	corners := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	var g Geometry
	for _, f := range faces {
		base := uint32(len(g.Vertices))
		center := f.normal.Mul(0.5)
		for _, c := range corners {
			pos := center.
				Add(f.u.Mul(c[0] - 0.5)).
				Add(f.v.Mul(c[1] - 0.5))
			g.Vertices = append(g.Vertices, Vertex{Position: pos, Normal: f.normal, UV: c})
		}
		g.Indices = append(g.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return g
}

// Sphere is a UV sphere of radius 1.
func Sphere(stacks, slices int) Geometry {
	var g Geometry
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			n := mgl32.Vec3{
				float32(math.Sin(phi) * math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			g.Vertices = append(g.Vertices, Vertex{
				Position: n,
				Normal:   n,
				UV:       mgl32.Vec2{float32(j) / float32(slices), float32(i) / float32(stacks)},
			})
		}
	}
	row := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*row + uint32(j)
			b := a + row
			g.Indices = append(g.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return g
}

// Cylinder is a unit radius tube running from z=0 to z=1, capped at both
// ends. Scaling z by a negative length points it down -z like a laser.
func Cylinder(slices int) Geometry {
	var g Geometry
	for j := 0; j <= slices; j++ {
		theta := 2 * math.Pi * float64(j) / float64(slices)
		x, y := float32(math.Cos(theta)), float32(math.Sin(theta))
		n := mgl32.Vec3{x, y, 0}
		u := float32(j) / float32(slices)
		g.Vertices = append(g.Vertices,
			Vertex{Position: mgl32.Vec3{x, y, 0}, Normal: n, UV: mgl32.Vec2{u, 0}},
			Vertex{Position: mgl32.Vec3{x, y, 1}, Normal: n, UV: mgl32.Vec2{u, 1}})
	}
	for j := 0; j < slices; j++ {
		a := uint32(2 * j)
		g.Indices = append(g.Indices, a, a+2, a+1, a+1, a+2, a+3)
	}

	for _, z := range []float32{0, 1} {
		n := mgl32.Vec3{0, 0, 2*z - 1}
		center := uint32(len(g.Vertices))
		g.Vertices = append(g.Vertices, Vertex{Position: mgl32.Vec3{0, 0, z}, Normal: n, UV: mgl32.Vec2{0.5, 0.5}})
		for j := 0; j < slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			x, y := float32(math.Cos(theta)), float32(math.Sin(theta))
			g.Vertices = append(g.Vertices, Vertex{
				Position: mgl32.Vec3{x, y, z},
				Normal:   n,
				UV:       mgl32.Vec2{0.5 + x/2, 0.5 + y/2},
			})
		}
		for j := 0; j < slices; j++ {
			a := center + 1 + uint32(j)
			b := center + 1 + uint32((j+1)%slices)
			if z == 0 {
				a, b = b, a
			}
			g.Indices = append(g.Indices, center, a, b)
		}
	}
	return g
}
