package glrender

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	lin "github.com/xlab/linmath"

	"github.com/go-vr/demos/scene"
	"github.com/go-vr/demos/stereo"
)

// SceneRenderer draws scene models with the lit program. It implements
// scene.Drawer for the eye set by the last Begin.
type SceneRenderer struct {
	program *Program
	meshes  [scene.ModelCount]*Mesh
}

func sceneMaterials() [scene.ModelCount]Material {
	var m [scene.ModelCount]Material
	m[scene.ModelFactory] = Material{
		Diffuse:   mgl32.Vec3{0.5, 0.5, 0.5},
		Specular:  mgl32.Vec3{0.2, 0.2, 0.2},
		Ambient:   mgl32.Vec3{0.15, 0.15, 0.15},
		Shininess: 8,
	}
	m[scene.ModelCO2] = Material{
		Diffuse:   mgl32.Vec3{0.15, 0.15, 0.15},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Ambient:   mgl32.Vec3{0.05, 0.05, 0.05},
		Shininess: 32,
	}
	m[scene.ModelO2] = Material{
		Diffuse:   mgl32.Vec3{0.8, 0.1, 0.1},
		Specular:  mgl32.Vec3{0.6, 0.6, 0.6},
		Ambient:   mgl32.Vec3{0.2, 0.02, 0.02},
		Shininess: 32,
	}
	m[scene.ModelGreenLaser] = Material{
		Emission:  mgl32.Vec3{0, 1, 0},
		Shininess: 1,
	}
	m[scene.ModelRedLaser] = Material{
		Emission:  mgl32.Vec3{1, 0, 0},
		Shininess: 1,
	}
	return m
}

func NewSceneRenderer() (*SceneRenderer, error) {
	program, err := NewSceneProgram()
	if err != nil {
		return nil, errors.Wrap(err, "scene program")
	}
	materials := sceneMaterials()
	sphere := Sphere(16, 24)
	laser := Cylinder(12)

	r := &SceneRenderer{program: program}
	r.meshes[scene.ModelFactory] = NewMesh(Cube(), materials[scene.ModelFactory])
	r.meshes[scene.ModelCO2] = NewMesh(sphere, materials[scene.ModelCO2])
	r.meshes[scene.ModelO2] = NewMesh(sphere, materials[scene.ModelO2])
	r.meshes[scene.ModelGreenLaser] = NewMesh(laser, materials[scene.ModelGreenLaser])
	r.meshes[scene.ModelRedLaser] = NewMesh(laser, materials[scene.ModelRedLaser])
	return r, nil
}

// Begin binds the program and the per eye uniforms.
func (r *SceneRenderer) Begin(view stereo.EyeView) {
	r.program.Use()
	r.program.SetMat4("projection", &view.Projection)
	r.program.SetMat4("view", &view.View)
	r.program.SetVec3("eyePos", view.EyePosition)
}

func (r *SceneRenderer) Draw(model scene.ModelID, transform *lin.Mat4x4) {
	if model < 0 || model >= scene.ModelCount {
		logger.Warningf("draw of unknown model %d", model)
		return
	}
	r.program.SetMat4Ptr("model", &transform[0][0])
	r.meshes[model].Draw(r.program)
}

func (r *SceneRenderer) Delete() {
	for _, m := range r.meshes {
		m.Delete()
	}
	r.program.Delete()
}
