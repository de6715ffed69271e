package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type Material struct {
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Ambient   mgl32.Vec3
	Emission  mgl32.Vec3
	Shininess float32
}

func (m *Material) apply(p *Program) {
	p.SetVec3("material.diffuse", m.Diffuse)
	p.SetVec3("material.specular", m.Specular)
	p.SetVec3("material.ambient", m.Ambient)
	p.SetVec3("material.emission", m.Emission)
	p.SetFloat("material.shininess", m.Shininess)
}

// Mesh is geometry uploaded into a vertex array with its material.
type Mesh struct {
	Material Material

	vao, vbo, ebo uint32
	count         int32
}

func NewMesh(g Geometry, material Material) *Mesh {
	m := &Mesh{
		Material: material,
		count:    int32(len(g.Indices)),
	}
	data := g.Flatten()

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	stride := int32(floatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)

	gl.BindVertexArray(0)
	return m
}

func (m *Mesh) Draw(p *Program) {
	m.Material.apply(p)
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m *Mesh) Delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}
