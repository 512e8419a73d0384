package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meadow/internal/engine/geometry"
)

// evictAfter is how many frames an unused mesh stays on the GPU.
const evictAfter = 300

// gpuMesh is a geometry uploaded to vertex buffers.
type gpuMesh struct {
	vao        uint32
	buffers    [6]uint32 // position, normal, joints, weights, uv, index
	indexCount int32
	lastFrame  uint64
}

// meshFor returns the uploaded form of g, uploading it on first use.
func (r *Renderer) meshFor(g *geometry.Geometry) *gpuMesh {
	m, ok := r.meshes[g]
	if !ok {
		m = uploadMesh(g)
		r.meshes[g] = m
	}
	m.lastFrame = r.frame
	return m
}

func uploadMesh(g *geometry.Geometry) *gpuMesh {
	m := &gpuMesh{indexCount: int32(len(g.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	// Position
	gl.GenBuffers(1, &m.buffers[0])
	gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Positions)*3*4, gl.Ptr(&g.Positions[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	// Normal
	if len(g.Normals) == len(g.Positions) {
		gl.GenBuffers(1, &m.buffers[1])
		gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[1])
		gl.BufferData(gl.ARRAY_BUFFER, len(g.Normals)*3*4, gl.Ptr(&g.Normals[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 3*4, 0)
		gl.EnableVertexAttribArray(1)
	} else {
		gl.VertexAttrib3f(1, 0, 1, 0)
	}

	if g.Skinned() {
		// Joint indices stay integers.
		gl.GenBuffers(1, &m.buffers[2])
		gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[2])
		gl.BufferData(gl.ARRAY_BUFFER, len(g.Joints)*4*2, gl.Ptr(&g.Joints[0]), gl.STATIC_DRAW)
		gl.VertexAttribIPointerWithOffset(2, 4, gl.UNSIGNED_SHORT, 4*2, 0)
		gl.EnableVertexAttribArray(2)

		gl.GenBuffers(1, &m.buffers[3])
		gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[3])
		gl.BufferData(gl.ARRAY_BUFFER, len(g.Weights)*4*4, gl.Ptr(&g.Weights[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, 4*4, 0)
		gl.EnableVertexAttribArray(3)
	}

	if g.Textured() {
		gl.GenBuffers(1, &m.buffers[4])
		gl.BindBuffer(gl.ARRAY_BUFFER, m.buffers[4])
		gl.BufferData(gl.ARRAY_BUFFER, len(g.UVs)*2*4, gl.Ptr(&g.UVs[0]), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(4, 2, gl.FLOAT, false, 2*4, 0)
		gl.EnableVertexAttribArray(4)
	}

	gl.GenBuffers(1, &m.buffers[5])
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.buffers[5])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(&g.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

func (m *gpuMesh) draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
}

func (m *gpuMesh) destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	for i := range m.buffers {
		if m.buffers[i] != 0 {
			gl.DeleteBuffers(1, &m.buffers[i])
			m.buffers[i] = 0
		}
	}
}

// evictMeshes frees meshes and textures that have not been drawn for a
// while, such as those of a replaced character model.
func (r *Renderer) evictMeshes() {
	for g, m := range r.meshes {
		if r.frame-m.lastFrame > evictAfter {
			m.destroy()
			delete(r.meshes, g)
		}
	}
	for img, t := range r.textures {
		if r.frame-t.lastFrame > evictAfter {
			t.destroy()
			delete(r.textures, img)
		}
	}
}
