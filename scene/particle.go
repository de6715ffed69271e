package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	lin "github.com/xlab/linmath"
)

// Variant is the visual state of a particle.
type Variant int

const (
	Unconverted Variant = iota
	Converted
)

func (v Variant) String() string {
	if v == Converted {
		return "O2"
	}
	return "CO2"
}

// Model resolves the variant to the drawable used for it.
func (v Variant) Model() ModelID {
	if v == Converted {
		return ModelO2
	}
	return ModelCO2
}

type Particle struct {
	Variant   Variant
	Transform lin.Mat4x4
	Velocity  lin.Vec3
	Axis      lin.Vec3
}

func (p *Particle) Position() mgl32.Vec3 {
	return mgl32.Vec3{p.Transform[3][0], p.Transform[3][1], p.Transform[3][2]}
}

// step moves the particle by its velocity, spins it about its own axis and
// reflects every velocity component whose coordinate is outside bounds.
func (p *Particle) step(spin float32, bounds Bounds) {
	for i := 0; i < 3; i++ {
		p.Transform[3][i] += p.Velocity[i]
	}

	var dup lin.Mat4x4
	dup.Dup(&p.Transform)
	p.Transform.Rotate(&dup, p.Axis[0], p.Axis[1], p.Axis[2], spin)

	for i := 0; i < 3; i++ {
		c := p.Transform[3][i]
		if c < bounds.Min[i] || c > bounds.Max[i] {
			p.Velocity[i] = -p.Velocity[i]
		}
	}
}

// scaledAt returns a uniform scale about the origin followed by a move to pos.
func scaledAt(pos mgl32.Vec3, scale float32) lin.Mat4x4 {
	var m lin.Mat4x4
	m.Identity()
	m[0][0], m[1][1], m[2][2] = scale, scale, scale
	m[3][0], m[3][1], m[3][2] = pos[0], pos[1], pos[2]
	return m
}

// toLin copies a column-major mgl32 matrix into a linmath one.
func toLin(m mgl32.Mat4) lin.Mat4x4 {
	var out lin.Mat4x4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c][r] = m[c*4+r]
		}
	}
	return out
}

func symmetric(rng *rand.Rand, half float32) float32 {
	return rng.Float32()*2*half - half
}

func randomVelocity(rng *rand.Rand) lin.Vec3 {
	v := mgl32.Vec3{symmetric(rng, 50), rng.Float32() * 100, symmetric(rng, 50)}
	if v.Len() == 0 {
		v = mgl32.Vec3{0, 1, 0}
	}
	v = v.Normalize().Mul(0.01)
	return lin.Vec3{v[0], v[1], v[2]}
}

func randomAxis(rng *rand.Rand) lin.Vec3 {
	v := mgl32.Vec3{symmetric(rng, 50), symmetric(rng, 50), symmetric(rng, 50)}
	if v.Len() == 0 {
		v = mgl32.Vec3{0, 1, 0}
	}
	v = v.Normalize()
	return lin.Vec3{v[0], v[1], v[2]}
}
