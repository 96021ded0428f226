package render

import "encoding/json"

// DefaultColorList is the palette series are assigned from when the caller
// does not pick colors.
var DefaultColorList = []string{"blue", "green", "red", "purple", "brown", "yellow", "aqua", "grey", "magenta", "pink", "gold", "rose"}

// MarshalJSON serializes the full graph geometry for SVG/canvas consumers.
// A nil graph marshals as null; the consumer shows an empty frame.
func MarshalJSON(g *Graph) ([]byte, error) {
	return json.Marshal(g)
}
