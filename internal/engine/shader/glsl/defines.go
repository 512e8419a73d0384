// Package glsl edits GLSL source text before compilation.
package glsl

import (
	"strings"
)

// WithDefines inserts "#define" lines right after the #version directive of
// src, or at the top when there is none. Each define is either "NAME" or
// "NAME VALUE".
func WithDefines(src string, defines ...string) string {
	if len(defines) == 0 {
		return src
	}

	var block strings.Builder
	for _, d := range defines {
		block.WriteString("#define ")
		block.WriteString(d)
		block.WriteByte('\n')
	}

	trimmed := strings.TrimLeft(src, " \t\r\n")
	if !strings.HasPrefix(trimmed, "#version") {
		return block.String() + src
	}

	offset := len(src) - len(trimmed)
	end := strings.IndexByte(trimmed, '\n')
	if end < 0 {
		return src + "\n" + block.String()
	}
	cut := offset + end + 1
	return src[:cut] + block.String() + src[cut:]
}
