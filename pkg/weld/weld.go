// Package weld merges near-coincident vertices of a mesh group.
//
// Two vertices merge when they lie within the merge distance of each other
// and every non-positional attribute is bit-identical. Vertices are visited
// in order and each one collapses onto the first already-kept vertex it is
// eligible with, so results are deterministic and welding is idempotent.
package weld

import (
	stdmath "math"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/glrimport/pkg/math"
	"github.com/Faultbox/glrimport/pkg/scene"
)

// DefaultDistance is the merge distance used when none is configured.
const DefaultDistance float32 = 0.001

// Options controls WeldScene.
type Options struct {
	Enabled  bool
	Distance float32
	Logger   *zap.Logger
}

// DefaultOptions enables welding at DefaultDistance.
func DefaultOptions() Options {
	return Options{Enabled: true, Distance: DefaultDistance}
}

// Stats summarizes a weld.
type Stats struct {
	VerticesIn   int
	VerticesOut  int
	TrianglesIn  int
	TrianglesOut int
}

// Merged returns the number of vertices folded into another.
func (s Stats) Merged() int {
	return s.VerticesIn - s.VerticesOut
}

// Degenerate returns the number of triangles removed after merging.
func (s Stats) Degenerate() int {
	return s.TrianglesIn - s.TrianglesOut
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		VerticesIn:   s.VerticesIn + o.VerticesIn,
		VerticesOut:  s.VerticesOut + o.VerticesOut,
		TrianglesIn:  s.TrianglesIn + o.TrianglesIn,
		TrianglesOut: s.TrianglesOut + o.TrianglesOut,
	}
}

// RoundDistance rounds a merge distance to six decimals.
func RoundDistance(d float32) float32 {
	return float32(stdmath.Round(float64(d)*1e6) / 1e6)
}

// Weld returns a copy of g with eligible vertices merged, triangle indices
// rewritten, degenerate triangles removed, and bindings rebuilt. A distance
// that rounds to zero or below returns an unchanged copy. g must pass
// scene.Validate.
func Weld(g *scene.MeshGroup, distance float32) (*scene.MeshGroup, Stats) {
	stats := Stats{VerticesIn: len(g.Vertices), TrianglesIn: len(g.Triangles)}
	d := RoundDistance(distance)
	if !(d > 0) {
		stats.VerticesOut, stats.TrianglesOut = stats.VerticesIn, stats.TrianglesIn
		return g.Clone(), stats
	}

	out := g.Clone()
	out.Vertices = make([]scene.Vertex, 0, len(g.Vertices))
	remap := make([]uint32, len(g.Vertices))
	grid := newGrid(d)

	for i, v := range g.Vertices {
		if rep, ok := grid.match(out.Vertices, v); ok {
			remap[i] = rep
			continue
		}
		idx := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, v)
		grid.insert(v.Position, idx)
		remap[i] = idx
	}

	materials := g.TriangleMaterials()
	kept := materials[:0]
	out.Triangles = make([]scene.Triangle, 0, len(g.Triangles))
	for ti, t := range g.Triangles {
		for k, idx := range t.Indices {
			t.Indices[k] = remap[idx]
		}
		if t.Degenerate() {
			continue
		}
		out.Triangles = append(out.Triangles, t)
		kept = append(kept, materials[ti])
	}
	out.Bindings = nil
	out.Rebind(kept)

	stats.VerticesOut, stats.TrianglesOut = len(out.Vertices), len(out.Triangles)
	return out, stats
}

// WeldScene welds every group of d. The input is left untouched; when
// welding is disabled the same description is returned.
func WeldScene(d *scene.Description, opts Options) (*scene.Description, Stats) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var total Stats
	if !opts.Enabled || !(RoundDistance(opts.Distance) > 0) {
		for _, g := range d.Groups {
			n := Stats{VerticesIn: len(g.Vertices), VerticesOut: len(g.Vertices),
				TrianglesIn: len(g.Triangles), TrianglesOut: len(g.Triangles)}
			total = total.add(n)
		}
		return d, total
	}

	out := *d
	out.Groups = make([]*scene.MeshGroup, len(d.Groups))
	for i, g := range d.Groups {
		welded, stats := Weld(g, opts.Distance)
		out.Groups[i] = welded
		total = total.add(stats)
		log.Debug("welded group",
			zap.String("name", g.Name),
			zap.Int("merged", stats.Merged()),
			zap.Int("degenerate", stats.Degenerate()),
			zap.Int("vertices", stats.VerticesOut))
	}
	return &out, total
}

type cell [3]int64

// grid buckets kept vertices by position. With cells as wide as the merge
// distance, any eligible neighbour sits in the same or an adjacent cell.
type grid struct {
	size  float32
	cells map[cell][]uint32
}

func newGrid(size float32) *grid {
	return &grid{size: size, cells: make(map[cell][]uint32)}
}

func (g *grid) cellOf(x, y, z float32) cell {
	return cell{
		int64(math32.Floor(x / g.size)),
		int64(math32.Floor(y / g.size)),
		int64(math32.Floor(z / g.size)),
	}
}

// insert adds a kept vertex. Non-finite positions are never bucketed and
// so never merge.
func (g *grid) insert(p math.Vec3, idx uint32) {
	if !p.IsFinite() {
		return
	}
	c := g.cellOf(p.X, p.Y, p.Z)
	g.cells[c] = append(g.cells[c], idx)
}

// match returns the lowest-indexed kept vertex v may merge with.
func (g *grid) match(kept []scene.Vertex, v scene.Vertex) (uint32, bool) {
	p := v.Position
	if !p.IsFinite() {
		return 0, false
	}
	limit := g.size * g.size
	c := g.cellOf(p.X, p.Y, p.Z)

	best, found := uint32(0), false
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				for _, idx := range g.cells[cell{c[0] + dx, c[1] + dy, c[2] + dz}] {
					if found && idx >= best {
						continue
					}
					k := kept[idx]
					if k.Position.DistanceSquared(p) <= limit && k.SameAttributes(v) {
						best, found = idx, true
					}
				}
			}
		}
	}
	return best, found
}
