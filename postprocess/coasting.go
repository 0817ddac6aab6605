// Package postprocess implements the coasting and back-pressure
// compensation passes of spec §4.9 (C9), run over a finished extruder
// plan before it is handed to the writer. Grounded on the teacher's
// plain-slice-mutation style (modifier/support.go rewrites a layer's
// polygon set in place) generalized to rewriting a path's tail points.
package postprocess

import (
	"layercore/geometry"
	"layercore/planning"
)

// CoastingConfig bundles the settings the coasting pass consults (spec
// §4.9).
type CoastingConfig struct {
	Volume      float64 // mm^3
	MinDistance geometry.Micrometer
	Speed       geometry.Ratio // fraction of nominal_speed * extrude_speed_factor
}

const coastingMinTailLength = geometry.Micrometer(100)

// ApplyCoasting rewrites, for every extrusion path immediately followed
// by a travel, the longest tail sub-path of length at most coasting_dist
// into a non-extruding travel at coasting_speed (spec §4.9). Paths are
// mutated in place.
func ApplyCoasting(paths []*planning.MotionRecord, cfg CoastingConfig) {
	if cfg.Volume <= 0 {
		return
	}
	for i, rec := range paths {
		if rec.Kind != planning.KindExtrusion {
			continue
		}
		if i+1 >= len(paths) || paths[i+1].Kind != planning.KindTravel {
			continue
		}
		coastOne(rec, cfg)
	}
}

func coastOne(rec *planning.MotionRecord, cfg CoastingConfig) {
	lineWidth := rec.Config.LineWidth.ToMillimeter()
	layerThickness := rec.Config.LayerThickness.ToMillimeter()
	if lineWidth <= 0 || layerThickness <= 0 {
		return
	}
	coastingDistMM := (cfg.Volume / float64(layerThickness)) / float64(lineWidth)
	coastingDist := geometry.Millimeter(coastingDistMM).ToMicrometer()
	if coastingDist < coastingMinTailLength {
		return
	}

	totalLen := pathLength(rec.Points)
	if totalLen < cfg.MinDistance {
		scale := float64(totalLen) / float64(cfg.MinDistance)
		coastingDist = geometry.Micrometer(float64(coastingDist) * scale)
	}
	if coastingDist < coastingMinTailLength {
		return
	}

	splitIdx, splitPoint, ok := tailSplit(rec.Points, coastingDist)
	if !ok {
		return
	}

	coastPoints := append(geometry.Path{splitPoint}, rec.Points[splitIdx+1:]...)
	rec.Points = rec.Points[:splitIdx+1]
	rec.Points = append(rec.Points, splitPoint)

	rec.CoastTail = coastPoints
	rec.CoastSpeed = geometry.Velocity(float64(cfg.Speed)) * rec.Config.NominalSpeed * geometry.Velocity(rec.SpeedFactor)
}

func pathLength(p geometry.Path) geometry.Micrometer {
	var total geometry.Micrometer
	for i := 1; i < len(p); i++ {
		total += p[i-1].Dist(p[i])
	}
	return total
}

// tailSplit walks p backward from its end, accumulating length, and
// returns the index of the last point at or before distance coastDist
// from the end, plus the exact interpolated point at coastDist.
func tailSplit(p geometry.Path, coastDist geometry.Micrometer) (int, geometry.Point, bool) {
	if len(p) < 2 {
		return 0, geometry.Point{}, false
	}
	var acc geometry.Micrometer
	for i := len(p) - 1; i > 0; i-- {
		segLen := p[i-1].Dist(p[i])
		if acc+segLen >= coastDist {
			remaining := coastDist - acc
			if segLen == 0 {
				return i - 1, p[i-1], true
			}
			frac := float64(remaining) / float64(segLen)
			dir := p[i].Sub(p[i-1])
			split := p[i-1].Add(dir.Mul(1 - frac))
			return i - 1, split, true
		}
		acc += segLen
	}
	return 0, p[0], true
}
