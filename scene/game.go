// Package scene is the CO2 to O2 minigame: particles drift out of a factory
// chimney and the player converts them by crossing both controller lasers
// on them.
package scene

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	lin "github.com/xlab/linmath"

	"github.com/go-vr/demos/hmd"
	"github.com/go-vr/demos/log"
)

var logger = log.New("scene")

type State int

const (
	Playing State = iota
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// Bounds is the axis-aligned play volume. Coordinates equal to a bound are
// still inside.
type Bounds struct {
	Min, Max mgl32.Vec3
}

type Config struct {
	Bounds    Bounds
	HitRadius float32
	// Spin is the per-step rotation of each particle, in radians.
	Spin             float32
	InitialParticles int
	// LoseThreshold is the highest unconverted count that is still playable.
	LoseThreshold  int
	FloodParticles int
	SpawnInterval  time.Duration

	Chimney       mgl32.Vec3
	ParticleScale float32
	FactoryScale  float32

	LaserLength float32
	LaserWidth  float32
}

func DefaultConfig() Config {
	return Config{
		Bounds: Bounds{
			Min: mgl32.Vec3{-10, -10, -25},
			Max: mgl32.Vec3{10, 10, -5},
		},
		HitRadius:        0.3,
		Spin:             0.05,
		InitialParticles: 5,
		LoseThreshold:    10,
		FloodParticles:   100,
		SpawnInterval:    time.Second,
		Chimney:          mgl32.Vec3{0, -1, -15},
		ParticleScale:    0.3,
		FactoryScale:     0.2,
		LaserLength:      20,
		LaserWidth:       0.01,
	}
}

// Input is what the game needs from the controllers for one step.
type Input struct {
	Hands   [hmd.HandCount]hmd.Pose
	Pressed [hmd.HandCount]bool
	Buttons uint32
}

// Laser is the beam attached to one controller.
type Laser struct {
	Transform lin.Mat4x4
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
	Active    bool
}

func (l *Laser) Model() ModelID {
	if l.Active {
		return ModelRedLaser
	}
	return ModelGreenLaser
}

type Game struct {
	cfg Config
	rng *rand.Rand

	particles []Particle
	lasers    [hmd.HandCount]Laser
	factory   lin.Mat4x4

	count      int
	state      State
	spawnTimer time.Duration
}

// spawnSlack absorbs the nanoseconds lost when a frame interval such as
// time.Second/90 is truncated.
const spawnSlack = time.Microsecond

// NewGame starts a round with the initial particles at the chimney.
func NewGame(cfg Config, rng *rand.Rand) *Game {
	g := &Game{
		cfg:     cfg,
		rng:     rng,
		factory: scaledAt(cfg.Chimney, cfg.FactoryScale),
	}
	for h := range g.lasers {
		g.lasers[h].Transform.Identity()
	}
	g.Reset()
	return g
}

// Reset replaces every particle with a fresh initial set and resumes play.
func (g *Game) Reset() {
	g.particles = make([]Particle, 0, g.cfg.InitialParticles)
	for i := 0; i < g.cfg.InitialParticles; i++ {
		g.spawn(scaledAt(g.cfg.Chimney, g.cfg.ParticleScale))
	}
	g.count = g.cfg.InitialParticles
	g.state = Playing
	g.spawnTimer = 0
}

func (g *Game) spawn(transform lin.Mat4x4) {
	g.particles = append(g.particles, Particle{
		Variant:   Unconverted,
		Transform: transform,
		Velocity:  randomVelocity(g.rng),
		Axis:      randomAxis(g.rng),
	})
}

func (g *Game) flood() {
	lo, hi := g.cfg.Bounds.Min, g.cfg.Bounds.Max
	for i := 0; i < g.cfg.FloodParticles; i++ {
		var pos mgl32.Vec3
		for a := 0; a < 3; a++ {
			pos[a] = lo[a] + g.rng.Float32()*(hi[a]-lo[a])
		}
		g.spawn(scaledAt(pos, g.cfg.ParticleScale))
	}
}

func (g *Game) State() State {
	return g.state
}

// Count is the number of unconverted particles the player still has to
// deal with.
func (g *Game) Count() int {
	return g.count
}

func (g *Game) Particles() []Particle {
	return g.particles
}

func (g *Game) Laser(hand hmd.Hand) Laser {
	return g.lasers[hand]
}

// ClearColor is the background for the current state.
func (g *Game) ClearColor() mgl32.Vec3 {
	if g.state == Won {
		return mgl32.Vec3{0, 0.2, 0.8}
	}
	return mgl32.Vec3{0, 0, 0.4}
}

func (g *Game) aimLasers(in Input) {
	scale := mgl32.Scale3D(g.cfg.LaserWidth, g.cfg.LaserWidth, -g.cfg.LaserLength)
	for h := range g.lasers {
		pose := in.Hands[h]
		l := &g.lasers[h]
		l.Origin = pose.Position
		l.Direction = pose.Orientation.Rotate(mgl32.Vec3{0, 0, -1})
		l.Transform = toLin(pose.Mat4().Mul4(scale))
		l.Active = in.Pressed[h]
	}
}

func (g *Game) hitByBoth(point mgl32.Vec3) bool {
	for h := range g.lasers {
		l := &g.lasers[h]
		if !l.Active || !RayHit(l.Origin, l.Direction, point, g.cfg.HitRadius) {
			return false
		}
	}
	return true
}

// Advance runs one fixed simulation step of length dt and returns how many
// particles were converted in it.
func (g *Game) Advance(in Input, dt time.Duration) int {
	g.aimLasers(in)

	converted := 0
	for i := range g.particles {
		p := &g.particles[i]
		p.step(g.cfg.Spin, g.cfg.Bounds)
		if g.state != Playing || p.Variant != Unconverted {
			continue
		}
		if g.hitByBoth(p.Position()) {
			p.Variant = Converted
			g.count--
			converted++
		}
	}

	if g.state == Playing {
		g.spawnTimer += dt
		if g.spawnTimer+spawnSlack >= g.cfg.SpawnInterval {
			g.spawn(scaledAt(g.cfg.Chimney, g.cfg.ParticleScale))
			g.count++
			g.spawnTimer -= g.cfg.SpawnInterval
			if g.spawnTimer < 0 {
				g.spawnTimer = 0
			}
		}
	}

	switch {
	case g.state == Playing && g.count > g.cfg.LoseThreshold:
		g.flood()
		g.state = Lost
		logger.Noticef("lost with %d particles left", g.count)
	case g.state == Playing && g.count == 0:
		g.state = Won
		logger.Notice("won, every particle converted")
	}

	if g.state != Playing && in.Buttons != 0 {
		logger.Infof("reset after %s", g.state)
		g.Reset()
	}
	return converted
}
