// Package fractal implements the subdivision fractal (spec C5): a balanced
// and dithered quad-tree (2D square variant) or prism-tree (2D+Z variant)
// driven by an opaque density-query callback, emitting a space-filling
// polyline per slice. Grounded on
// original_source/src/infill/{SquareSubdiv,Cross3D,InfillFractal2D}.{h,cpp}.
package fractal

import "fmt"

// FractalError reports a failure of the subdivision fractal, e.g. a density
// field everywhere below the minimal realizable density.
type FractalError struct {
	Op string
}

func (e *FractalError) Error() string {
	return fmt.Sprintf("fractal: %s", e.Op)
}

// DensityProvider answers, for an axis-aligned query box, the density that
// should be printed there and the minimum density required anywhere within
// it. It is supplied by the caller and never inspected by this package
// beyond querying it, per spec §4.5.1.
type DensityProvider interface {
	// Query returns the requested infill density (a ratio in [0,1]) and the
	// minimally required density for the axis-aligned box (minX, minY,
	// maxX, maxY, minZ, maxZ) in micrometres.
	Query(minX, minY, maxX, maxY, minZ, maxZ int64) (density, minRequired float64)
}
