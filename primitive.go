package shapes

// Primitive is renderable geometry in the plot CRS. The interface is
// sealed: renderers switch over the four variants below and need no
// other cases.
type Primitive interface {
	isPrimitive()
}

// PolygonSet holds one closed ring per surviving datum, in the order
// the surviving data appear in the dataset. Rings are not explicitly
// closed; the last vertex connects back to the first.
type PolygonSet struct {
	Rings [][]Point
}

func (*PolygonSet) isPrimitive() {}

// QuadMesh is a structured lattice of quadrilateral faces. The vertex
// arrays hold (Rows+1)*(Cols+1) coordinates row-major; face (i, j) has
// corners (i, j), (i, j+1), (i+1, j+1), (i+1, j) in vertex indices.
// Values, when present, hold one scalar per face.
type QuadMesh struct {
	Rows, Cols int
	X, Y       []float64
	Values     []float64
}

func (*QuadMesh) isPrimitive() {}

// VertexIndex returns the flat index of lattice vertex (i, j).
func (m *QuadMesh) VertexIndex(i, j int) int { return i*(m.Cols+1) + j }

// TriMesh is an indexed triangle mesh. Values, when present, hold one
// scalar per vertex.
type TriMesh struct {
	X, Y      []float64
	Triangles [][3]int
	Values    []float64
}

func (*TriMesh) isPrimitive() {}

// Markers places one glyph per surviving datum. Sizes holds either one
// shared size or one per marker.
type Markers struct {
	X, Y   []float64
	Sizes  []float64
	Marker string
}

func (*Markers) isPrimitive() {}
