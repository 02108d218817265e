package scene

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/glrimport/pkg/formats"
)

// Validate checks the structural invariants of a scene and returns every
// violation found, combined with multierr.
//
// Every triangle index must address a vertex of its group, and the bindings
// must cover the triangle list with ordered, non-overlapping runs that name
// an existing material.
func Validate(d *Description) error {
	var errs error
	for gi, g := range d.Groups {
		errs = multierr.Append(errs, validateGroup(gi, g))
	}
	return errs
}

func validateGroup(gi int, g *MeshGroup) error {
	var errs error
	fail := func(tri int, sentinel error, expected, actual string) {
		errs = multierr.Append(errs, &AssemblyError{
			Group:    gi,
			Triangle: tri,
			Offset:   -1,
			Record:   formats.GLRRecordTriangle,
			Expected: expected,
			Actual:   actual,
			Err:      sentinel,
		})
	}

	for ti, t := range g.Triangles {
		for _, idx := range t.Indices {
			if int(idx) >= len(g.Vertices) {
				fail(ti, ErrDanglingIndex, fmt.Sprintf("index < %d", len(g.Vertices)), fmt.Sprintf("%d", idx))
			}
		}
	}

	next := 0
	for bi, b := range g.Bindings {
		switch {
		case b.Count <= 0:
			fail(b.Start, ErrSceneAssembly, fmt.Sprintf("binding %d with triangles", bi), fmt.Sprintf("count %d", b.Count))
		case b.Start != next:
			fail(b.Start, ErrSceneAssembly, fmt.Sprintf("binding %d starting at %d", bi, next), fmt.Sprintf("start %d", b.Start))
		case b.End() > len(g.Triangles):
			fail(b.Start, ErrSceneAssembly, fmt.Sprintf("binding %d ending by %d", bi, len(g.Triangles)), fmt.Sprintf("end %d", b.End()))
		}
		if b.Material < 0 || b.Material >= len(g.Materials) {
			fail(b.Start, ErrSceneAssembly, fmt.Sprintf("material < %d", len(g.Materials)), fmt.Sprintf("material %d", b.Material))
		}
		if b.End() > next {
			next = b.End()
		}
	}
	if next < len(g.Triangles) {
		fail(next, ErrSceneAssembly, fmt.Sprintf("bindings covering %d triangles", len(g.Triangles)), fmt.Sprintf("%d covered", next))
	}
	return errs
}
