package scene

import lin "github.com/xlab/linmath"

// ModelID names one of the shared drawables.
type ModelID int

const (
	ModelFactory ModelID = iota
	ModelCO2
	ModelO2
	ModelGreenLaser
	ModelRedLaser

	ModelCount
)

func (m ModelID) String() string {
	switch m {
	case ModelFactory:
		return "factory"
	case ModelCO2:
		return "co2"
	case ModelO2:
		return "o2"
	case ModelGreenLaser:
		return "green laser"
	case ModelRedLaser:
		return "red laser"
	default:
		return "unknown"
	}
}

// Drawer issues one draw of model with the given world transform.
type Drawer interface {
	Draw(model ModelID, transform *lin.Mat4x4)
}

// Render draws both lasers, the factory and every particle.
func (g *Game) Render(d Drawer) {
	for h := range g.lasers {
		d.Draw(g.lasers[h].Model(), &g.lasers[h].Transform)
	}
	d.Draw(ModelFactory, &g.factory)
	for i := range g.particles {
		p := &g.particles[i]
		d.Draw(p.Variant.Model(), &p.Transform)
	}
}
