// Package comb implements the comb-boundary builder (C3) and the combing
// engine (C4): retraction-free travel planning that stays inside part
// boundaries, grounded on original_source/src/pathPlanning/Comb.cpp and
// expressed in the teacher's clip.Clipper idiom (clip/clipper.go).
package comb

import (
	"layercore/geometry"
	"layercore/settings"
)

// Boundaries is the pair of comb boundaries a layer plan uses: the
// "minimum" boundary, inset from a layer's parts by the outer wall width,
// and the "preferred" boundary, inset further by a quarter of the inner
// wall widths (so it lies inside the minimum one when WallCount > 1).
type Boundaries struct {
	Minimum   geometry.Paths
	Preferred geometry.Paths
}

// BoundaryInputs bundles everything BuildBoundaries needs for one layer.
type BoundaryInputs struct {
	Parts       []geometry.LayerPart
	InnerArea   geometry.Paths // walls-inward area, needed only for CombingNoSkin
	InfillArea  geometry.Paths // needed for CombingNoSkin and CombingInfill
	RaftOutline geometry.Paths // needed only when LayerIndex < 0
	LayerIndex  int
}

// BoundaryConfig carries the wall-geometry settings the offsets are derived
// from (spec §4.3).
type BoundaryConfig struct {
	WallLineWidth0 geometry.Micrometer
	WallLineWidthX geometry.Micrometer
	WallCount      int
}

const baseCombInset = geometry.Micrometer(10)
const raftOutlineExpand = geometry.Micrometer(100)

// BuildBoundaries derives the minimum and preferred comb boundaries for one
// layer, per spec §4.3.
func BuildBoundaries(in BoundaryInputs, mode settings.CombingMode, cfg BoundaryConfig) (Boundaries, error) {
	if mode == settings.CombingOff {
		return Boundaries{}, nil
	}

	if in.LayerIndex < 0 {
		expanded, err := offsetWithHullFallback(in.RaftOutline, raftOutlineExpand)
		if err != nil {
			return Boundaries{}, err
		}
		return Boundaries{Minimum: expanded, Preferred: expanded}, nil
	}

	if mode == settings.CombingInfill {
		return Boundaries{Minimum: in.InfillArea, Preferred: in.InfillArea}, nil
	}

	base := geometry.PartsToPaths(in.Parts)

	minOffset := -(baseCombInset + cfg.WallLineWidth0)
	prefOffset := -(baseCombInset + cfg.WallLineWidth0 +
		geometry.Micrometer(float64(cfg.WallCount-1)*float64(cfg.WallLineWidthX)/4))

	minBoundary, err := offsetWithHullFallback(base, minOffset)
	if err != nil {
		return Boundaries{}, err
	}
	prefBoundary, err := offsetWithHullFallback(base, prefOffset)
	if err != nil {
		return Boundaries{}, err
	}

	if mode == settings.CombingNoSkin {
		skinOnly, err := geometry.Difference(in.InnerArea, in.InfillArea)
		if err != nil {
			return Boundaries{}, err
		}
		minBoundary, err = geometry.Difference(minBoundary, skinOnly)
		if err != nil {
			return Boundaries{}, err
		}
		prefBoundary, err = geometry.Difference(prefBoundary, skinOnly)
		if err != nil {
			return Boundaries{}, err
		}
	}

	return Boundaries{Minimum: minBoundary, Preferred: prefBoundary}, nil
}

// offsetWithHullFallback offsets base by distance, falling back to offsetting
// the convex hull of base when the direct offset degenerates to nothing for
// a non-empty input (spec_full domain-stack note: go-convex-hull-2d).
func offsetWithHullFallback(base geometry.Paths, distance geometry.Micrometer) (geometry.Paths, error) {
	if len(base) == 0 {
		return nil, nil
	}
	result, err := geometry.Offset(base, distance, geometry.JoinSquare)
	if err != nil {
		return nil, err
	}
	if len(result) > 0 {
		return result, nil
	}
	var all geometry.Path
	for _, p := range base {
		all = append(all, p...)
	}
	hull := geometry.ConvexHull(all)
	if len(hull) < 3 {
		return nil, nil
	}
	return geometry.Offset(geometry.Paths{hull}, distance, geometry.JoinSquare)
}
