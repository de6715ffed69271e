package glrender

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkIndices(t *testing.T, g Geometry) {
	t.Helper()
	require.Zero(t, len(g.Indices)%3, "triangle list")
	for _, i := range g.Indices {
		require.Less(t, int(i), len(g.Vertices))
	}
}

func TestCube(t *testing.T) {
	g := Cube()
	assert.Len(t, g.Vertices, 24)
	assert.Len(t, g.Indices, 36)
	checkIndices(t, g)

	for _, v := range g.Vertices {
		for a := 0; a < 3; a++ {
			assert.InDelta(t, 0.5, mgl32.Abs(v.Position[a]), 0.5+1e-6)
		}
		// every vertex sits on the face its normal points through
		assert.InDelta(t, 0.5, v.Position.Dot(v.Normal), 1e-6)
	}
}

func TestSphere(t *testing.T) {
	g := Sphere(8, 16)
	assert.Len(t, g.Vertices, 9*17)
	assert.Len(t, g.Indices, 8*16*6)
	checkIndices(t, g)
	for _, v := range g.Vertices {
		assert.InDelta(t, 1, v.Position.Len(), 1e-5)
		assert.Equal(t, v.Position, v.Normal)
	}
}

func TestCylinder(t *testing.T) {
	g := Cylinder(12)
	checkIndices(t, g)
	for _, v := range g.Vertices {
		assert.True(t, v.Position[2] == 0 || v.Position[2] == 1, "z %v out of range", v.Position[2])
	}
}

func TestFlatten(t *testing.T) {
	g := Geometry{Vertices: []Vertex{{
		Position: mgl32.Vec3{1, 2, 3},
		Normal:   mgl32.Vec3{4, 5, 6},
		UV:       mgl32.Vec2{7, 8},
	}}}
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, g.Flatten())
}
