// Command planlayer is the demo driver for the path-planning core: it
// loads a scene, builds one layer's comb boundaries and engine, runs a
// layer plan over a single part's wall, and finishes with the cooling
// and postprocessing passes (C6-C9). It does not slice an STL or write
// g-code; those stages are out of scope (spec §1 Non-goals). Grounded on
// the teacher's cmd/goslice/slicer.go flag-and-wire idiom, narrowed to
// the stages this module implements.
package main

import (
	"fmt"
	"log"
	"os"

	"layercore/comb"
	"layercore/cooling"
	"layercore/geometry"
	"layercore/planning"
	"layercore/postprocess"
	"layercore/settings"

	flag "github.com/spf13/pflag"
)

func main() {
	scenePath := flag.StringP("scene", "s", "", "path to a scene YAML settings file")
	layerIndex := flag.IntP("layer", "l", 0, "layer index to plan (negative for raft layers)")
	sizeMM := flag.Float64P("size", "S", 40, "side length in mm of the synthetic square part to plan")
	flag.Parse()

	logger := log.New(os.Stderr, "planlayer: ", log.LstdFlags)

	var scene *settings.Scene
	if *scenePath != "" {
		data, err := os.ReadFile(*scenePath)
		if err != nil {
			logger.Fatalf("read scene: %v", err)
		}
		scene, err = settings.LoadScene(data, logger)
		if err != nil {
			logger.Fatalf("load scene: %v", err)
		}
	} else {
		scene = settings.NewScene(1, logger)
	}
	extruder := scene.Extruders[0]

	outline := squareOutlineMM(*sizeMM)

	parts, err := geometry.PartitionPaths(geometry.Paths{outline})
	if err != nil {
		logger.Fatalf("partition part: %v", err)
	}

	boundaries, err := comb.BuildBoundaries(comb.BoundaryInputs{
		Parts:      parts,
		InnerArea:  geometry.Paths{outline},
		InfillArea: geometry.Paths{outline},
		LayerIndex: *layerIndex,
	}, scene.CombingMode(), comb.BoundaryConfig{
		WallLineWidth0: extruder.Store().GetMicrometerOr("wall_line_width_0", 0.4),
		WallLineWidthX: extruder.Store().GetMicrometerOr("wall_line_width_x", 0.4),
		WallCount:      extruder.Store().GetIntOr("wall_line_count", 2),
	})
	if err != nil {
		logger.Fatalf("build comb boundaries: %v", err)
	}

	retraction := extruder.Retraction()
	engine, err := comb.NewEngine(boundaries, geometry.Paths{outline}, comb.EngineConfig{
		WallOffset:               extruder.Store().GetMicrometerOr("wall_line_width_0", 0.4),
		TravelAvoidDistance:      extruder.Store().GetMicrometerOr("travel_avoid_distance", 0.625),
		MoveInsideDistance:       extruder.Store().GetMicrometerOr("machine_nozzle_size", 0.4),
		RetractionCombingMaxDist: retraction.CombingMaxDistance,
		RetractionEnabled:        retraction.Enabled,
		HopOnlyWhenCollides:      retraction.HopOnlyWhenCollides,
		GridCellSize:             2000,
	})
	if err != nil {
		logger.Fatalf("build combing engine: %v", err)
	}

	layerThickness := extruder.Store().GetMicrometerOr("layer_height", 0.2)
	layerZ := geometry.Micrometer(*layerIndex) * layerThickness

	endpoints := func(extruderIndex int) planning.ExtruderEndpoints {
		return planning.ExtruderEndpoints{}
	}

	lp := planning.NewLayerPlan(*layerIndex, layerZ, layerZ+layerThickness, layerThickness, extruder.Index, *layerIndex == 0, false, engine, endpoints)

	wallWidth := extruder.Store().GetMicrometerOr("wall_line_width_0", 0.4)
	nominalSpeed := extruder.Store().GetVelocityOr("speed_wall_0", 30)
	wallCfg := planning.FeatureConfig{
		Tag:            planning.FeatureOuterWall,
		LineWidth:      wallWidth,
		LayerThickness: layerThickness,
		NominalSpeed:   nominalSpeed,
	}
	bridgeCfg := planning.BridgeConfig{
		FeatureConfig: planning.FeatureConfig{
			Tag:            planning.FeatureOuterWall,
			LineWidth:      wallWidth,
			LayerThickness: layerThickness,
			NominalSpeed:   extruder.Store().GetVelocityOr("bridge_wall_speed", float64(nominalSpeed)),
		},
		MinLength:    extruder.Store().GetMicrometerOr("bridge_wall_min_length", 5),
		Coast:        extruder.Store().GetRatioOr("bridge_wall_coast", 100),
		FanSpeed:     extruder.Store().GetRatioOr("bridge_fan_speed", 100),
		MaterialFlow: extruder.Store().GetRatioOr("bridge_wall_material_flow", 100),
	}

	junctions := make([]planning.WallJunction, len(outline))
	for i, p := range outline {
		junctions[i] = planning.WallJunction{Point: p, Width: wallWidth}
	}
	lp.AddWall(junctions, 0, wallCfg, bridgeCfg, lp.BridgeWallMask, 1.0, retraction.MinTravelDistance, retraction.CombingMaxDistance, retraction.ZHopEnabled)

	plan := lp.ExtruderPlans[len(lp.ExtruderPlans)-1]
	cooling.EstimateTimes(plan, retraction)

	coolingCfg := extruder.Cooling()
	cooling.EnforceMinimumLayerTime(plan, coolingCfg)
	fanSpeed := cooling.FanSpeed(cooling.TotalTime(plan.TimeEstimates), coolingCfg, *layerIndex, false)
	plan.FanSpeed = fanSpeed

	postprocess.ApplyCoasting(plan.Paths(), postprocess.CoastingConfig{
		Volume:      extruder.Store().GetFloat64Or("coasting_volume", 0),
		MinDistance: extruder.Store().GetMicrometerOr("coasting_min_volume", 0.8),
		Speed:       extruder.Store().GetRatioOr("coasting_speed", 90),
	})
	postprocess.ApplyBackPressureCompensation(plan.Paths(), postprocess.BackPressureConfig{
		NominalFlowRatio:        1.0,
		NominalWidth:            wallWidth,
		EqualizeFlowWidthFactor: extruder.Store().GetFloat64Or("speed_equalize_flow_width_factor", 0),
	})

	fmt.Printf("layer %d: %d path(s), extrude=%.2fs travel=%.2fs material=%.3fmm^3 fan=%.0f%% extra_time=%.2fs\n",
		*layerIndex, len(plan.Paths()),
		float64(plan.TimeEstimates.Extrude), float64(plan.TimeEstimates.RetractedTravel+plan.TimeEstimates.UnretractedTravel),
		plan.TimeEstimates.MaterialVolume, float64(fanSpeed), float64(plan.ExtraTime))
}

// squareOutlineMM builds a counter-clockwise square part outline of the given side
// length, centered at the origin, for the demo driver to plan around.
func squareOutlineMM(sideMM float64) geometry.Polygon {
	half := geometry.Millimeter(sideMM / 2).ToMicrometer()
	return geometry.Polygon{
		geometry.NewPoint(-half, -half),
		geometry.NewPoint(half, -half),
		geometry.NewPoint(half, half),
		geometry.NewPoint(-half, half),
	}
}
