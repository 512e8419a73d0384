package scene

import "github.com/go-gl/mathgl/mgl32"

// MaxJoints is the joint palette size the skinned shader accepts.
const MaxJoints = 64

// Skin binds a mesh's vertices to a set of joint nodes.
type Skin struct {
	Joints      []*Node
	InverseBind []mgl32.Mat4
}

// JointMatrices writes jointWorld * inverseBind for each joint into dst,
// growing it as needed. The result maps bind-pose vertices straight to scene
// space, so skinned meshes draw with an identity model matrix.
func (s *Skin) JointMatrices(dst []mgl32.Mat4) []mgl32.Mat4 {
	dst = dst[:0]
	for i, j := range s.Joints {
		ibm := mgl32.Ident4()
		if i < len(s.InverseBind) {
			ibm = s.InverseBind[i]
		}
		dst = append(dst, j.WorldMatrix().Mul4(ibm))
	}
	return dst
}
