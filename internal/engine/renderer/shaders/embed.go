// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms static and skinned meshes for the lit pass.
// Define SKINNED and MAX_JOINTS for the skinned variant.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades with ambient, one directional light and its
// shadow map.
//
//go:embed lit.frag
var LitFragmentShader string

// DepthVertexShader renders light-space depth for the shadow map.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader is empty; only depth is written.
//
//go:embed depth.frag
var DepthFragmentShader string

// OverlayVertexShader draws a screen-space textured quad.
//
//go:embed overlay.vert
var OverlayVertexShader string

// OverlayFragmentShader samples a premultiplied RGBA texture.
//
//go:embed overlay.frag
var OverlayFragmentShader string
