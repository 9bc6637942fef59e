package geometry

import (
	"math"

	Vec "hairsim.com/hairsim/vector"
)

//diesel geometry library - unit primitive meshes for collision proxies and their display.
//Collision response itself runs on the device; these meshes only feed the wireframe
//and shaded draw of the proxies.

type Triangle struct {
	Verts [3]Vec.Vec32
}

//Triangle Mesh Storage, one normal per triangle
type Mesh struct {
	Vertexes []Vec.Vec32
	Normals  []Vec.Vec32
}

func InitTriangle(a Vec.Vec32, b Vec.Vec32, c Vec.Vec32) Triangle {
	return Triangle{[3]Vec.Vec32{a, b, c}}
}

func (tri *Triangle) Normal() Vec.Vec32 {
	N := Vec.Cross(Vec.Sub(tri.Verts[1], tri.Verts[0]), Vec.Sub(tri.Verts[2], tri.Verts[0]))
	return Vec.Normalize(N)
}

//InitMesh builds per triangle normals pointing away from origin
func InitMesh(vertices []Vec.Vec32, origin Vec.Vec32) Mesh {
	nMesh := Mesh{Vertexes: vertices, Normals: make([]Vec.Vec32, len(vertices)/3)}
	for i := 0; i+2 < len(vertices); i += 3 {
		thisTriangle := InitTriangle(vertices[i], vertices[i+1], vertices[i+2])
		n := thisTriangle.Normal()
		center := Vec.Scale(Vec.Add(Vec.Add(vertices[i], vertices[i+1]), vertices[i+2]), 1.0/3.0)
		if Vec.Dot(n, Vec.Sub(center, origin)) < 0 {
			n.Scale(-1.0)
		}
		nMesh.Normals[i/3] = n
	}
	return nMesh
}

//Interleaved returns x,y,z,nx,ny,nz per vertex for a single VBO upload
func (g *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Vertexes)*6)
	for i, v := range g.Vertexes {
		n := g.Normals[i/3]
		out = append(out, v[0], v[1], v[2], n[0], n[1], n[2])
	}
	return out
}

//Triangle Mesh Box with 12 Triangles // 36 Vertexes
func Box(w float32, h float32, d float32, o Vec.Vec32) *Mesh {
	var Verts = make([]Vec.Vec32, 12*3)

	x := o[0]
	y := o[1]
	z := o[2]

	p := w / 2
	q := h / 2
	s := d / 2

	//FRONT FACE +Z
	Verts[0] = Vec.Vec32{x - p, y - q, z + s} //LFB
	Verts[1] = Vec.Vec32{x - p, y + q, z + s} //LFT
	Verts[2] = Vec.Vec32{x + p, y + q, z + s} //RFT

	Verts[3] = Vec.Vec32{x + p, y + q, z + s} //RFT
	Verts[4] = Vec.Vec32{x + p, y - q, z + s} //RFB
	Verts[5] = Vec.Vec32{x - p, y - q, z + s} //LFB

	//BACK FACE -Z
	Verts[6] = Vec.Vec32{x - p, y - q, z - s} //LBB
	Verts[7] = Vec.Vec32{x - p, y + q, z - s} //LBT
	Verts[8] = Vec.Vec32{x + p, y - q, z - s} //RBB

	Verts[9] = Vec.Vec32{x - p, y + q, z - s}  //LBT
	Verts[10] = Vec.Vec32{x + p, y + q, z - s} //RBT
	Verts[11] = Vec.Vec32{x + p, y - q, z - s} //RBB

	//BOTTOM FACE -Y
	Verts[12] = Vec.Vec32{x - p, y - q, z + s} //LFB
	Verts[13] = Vec.Vec32{x - p, y - q, z - s} //LBB
	Verts[14] = Vec.Vec32{x + p, y - q, z - s} //RBB

	Verts[15] = Vec.Vec32{x - p, y - q, z + s} //LFB
	Verts[16] = Vec.Vec32{x + p, y - q, z - s} //RBB
	Verts[17] = Vec.Vec32{x + p, y - q, z + s} //RFB

	//Top FACE +Y
	Verts[18] = Vec.Vec32{x - p, y + q, z + s} //LFT
	Verts[19] = Vec.Vec32{x - p, y + q, z - s} //LBT
	Verts[20] = Vec.Vec32{x + p, y + q, z - s} //RBT

	Verts[21] = Vec.Vec32{x + p, y + q, z - s} //RBT
	Verts[22] = Vec.Vec32{x + p, y + q, z + s} //RFT
	Verts[23] = Vec.Vec32{x - p, y + q, z + s} //LFT

	//LEFT FACE -X
	Verts[24] = Vec.Vec32{x - p, y - q, z + s} //LFB
	Verts[25] = Vec.Vec32{x - p, y - q, z - s} //LBB
	Verts[26] = Vec.Vec32{x - p, y + q, z + s} //LTF

	Verts[27] = Vec.Vec32{x - p, y - q, z - s} //LBB
	Verts[28] = Vec.Vec32{x - p, y + q, z - s} //LBT
	Verts[29] = Vec.Vec32{x - p, y + q, z + s} //LFT

	//RIGHT FACE +X
	Verts[30] = Vec.Vec32{x + p, y + q, z + s} //RFT
	Verts[31] = Vec.Vec32{x + p, y - q, z + s} //RFB
	Verts[32] = Vec.Vec32{x + p, y - q, z - s} //RBB

	Verts[33] = Vec.Vec32{x + p, y + q, z + s} //RFT
	Verts[34] = Vec.Vec32{x + p, y + q, z - s} //RBT
	Verts[35] = Vec.Vec32{x + p, y - q, z - s} //RBB

	boxMesh := InitMesh(Verts, o)
	return &boxMesh
}

//UVSphere triangulates a sphere from sector (longitude) and stack (latitude) bands
func UVSphere(sectors int, stacks int, radius float32) *Mesh {
	if sectors < 3 {
		sectors = 3
	}
	if stacks < 2 {
		stacks = 2
	}

	point := func(i, j int) Vec.Vec32 {
		stack := math.Pi/2 - float64(i)*math.Pi/float64(stacks)
		sector := float64(j) * 2 * math.Pi / float64(sectors)
		xy := float64(radius) * math.Cos(stack)
		return Vec.Vec32{float32(xy * math.Cos(sector)), float32(xy * math.Sin(sector)), radius * float32(math.Sin(stack))}
	}

	verts := make([]Vec.Vec32, 0, sectors*stacks*6)
	for i := 0; i < stacks; i++ {
		for j := 0; j < sectors; j++ {
			k1 := point(i, j)
			k2 := point(i+1, j)
			k3 := point(i, j+1)
			k4 := point(i+1, j+1)
			//Poles collapse one triangle of the quad
			if i != 0 {
				verts = append(verts, k1, k2, k3)
			}
			if i != stacks-1 {
				verts = append(verts, k3, k2, k4)
			}
		}
	}

	sphere := InitMesh(verts, Vec.Vec32{})
	return &sphere
}
