//go:build !cairo

package render

// HaveGraphSupport reports whether raster/vector output was compiled in.
const HaveGraphSupport = false

func MarshalPNG(g *Graph) []byte {
	return nil
}

func MarshalSVG(g *Graph) []byte {
	return nil
}
