package settings

import (
	"fmt"
	"log"

	"layercore/geometry"

	"gopkg.in/yaml.v3"
)

// sceneFile is the on-disk YAML shape for a Scene, the concrete form of the
// §6 settings surface. It is intentionally flat (string-valued settings
// everywhere except the flow/temperature graph) so that Store's generic
// typed accessors are the single parsing path, the same way the original's
// Settings objects store everything as strings and parse on access.
type sceneFile struct {
	Settings  map[string]string `yaml:"settings"`
	Extruders []extruderFile    `yaml:"extruders"`
	Meshes    []meshFile        `yaml:"meshes"`
}

type extruderFile struct {
	Settings      map[string]string `yaml:"settings"`
	FlowTempGraph [][2]float64      `yaml:"flow_temp_graph"`
}

type meshFile struct {
	ID       string            `yaml:"id"`
	Extruder int               `yaml:"extruder"`
	Settings map[string]string `yaml:"settings"`
}

// LoadScene parses a YAML settings document into a Scene. This is the
// settings surface's concrete file format (§6); it is not a project/GUI
// format, so it is in scope even though the spec's Non-goals exclude
// project-file formats in general (that exclusion targets GUI project
// files, not the machine/material/print settings surface itself).
func LoadScene(data []byte, logger *log.Logger) (*Scene, error) {
	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("settings: parse scene: %w", err)
	}
	if len(f.Extruders) == 0 {
		return nil, fmt.Errorf("settings: scene must declare at least one extruder")
	}

	scene := NewScene(len(f.Extruders), logger)
	for k, v := range f.Settings {
		scene.Set(k, v)
	}

	for i, ef := range f.Extruders {
		ex := scene.Extruders[i]
		for k, v := range ef.Settings {
			ex.Set(k, v)
		}
		if len(ef.FlowTempGraph) > 0 {
			graph := &FlowTempGraph{}
			for _, pair := range ef.FlowTempGraph {
				graph.Data = append(graph.Data, FlowTempDatum{Flow: pair[0], Temp: geometry.Temperature(pair[1])})
			}
			ex.FlowTempGraph = graph
		}
	}

	group := MeshGroup{}
	for _, mf := range f.Meshes {
		if mf.Extruder < 0 || mf.Extruder >= len(scene.Extruders) {
			return nil, fmt.Errorf("settings: mesh %q references unknown extruder %d", mf.ID, mf.Extruder)
		}
		mesh := NewMesh(mf.ID, scene, scene.Extruders[mf.Extruder])
		for k, v := range mf.Settings {
			mesh.Set(k, v)
		}
		group.Meshes = append(group.Meshes, mesh)
	}
	if len(group.Meshes) > 0 {
		scene.MeshGroups = append(scene.MeshGroups, group)
	}

	return scene, nil
}
