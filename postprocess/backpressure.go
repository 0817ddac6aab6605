package postprocess

import (
	"layercore/geometry"
	"layercore/planning"
)

// BackPressureConfig bundles the settings spec §4.9's back-pressure
// compensation consults.
type BackPressureConfig struct {
	NominalFlowRatio        geometry.Ratio
	NominalWidth            geometry.Micrometer
	EqualizeFlowWidthFactor float64
}

const minBackPressureFactor = 0.001

// ApplyBackPressureCompensation sets BackPressureFactor on every
// extrusion path with positive flow: actual_width = flow ×
// nominal_flow_ratio × nominal_width, then factor = max(0.001, 1 +
// (nominal_width/actual_width − 1) × speed_equalize_flow_width_factor)
// (spec §4.9). The factor is applied multiplicatively to the path's speed
// at emission time by the estimator/writer, not here.
func ApplyBackPressureCompensation(paths []*planning.MotionRecord, cfg BackPressureConfig) {
	for _, rec := range paths {
		if rec.Kind != planning.KindExtrusion || rec.FlowRatio <= 0 {
			continue
		}
		actualWidth := float64(rec.FlowRatio) * float64(cfg.NominalFlowRatio) * float64(cfg.NominalWidth)
		if actualWidth <= 0 {
			continue
		}
		factor := 1 + (float64(cfg.NominalWidth)/actualWidth-1)*cfg.EqualizeFlowWidthFactor
		if factor < minBackPressureFactor {
			factor = minBackPressureFactor
		}
		rec.BackPressureFactor = factor
	}
}
