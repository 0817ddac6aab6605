package settings

import "log"

// CombingMode selects which regions of a part the combing engine is
// allowed to travel through (spec §4.3, setting "retraction_combing").
type CombingMode int

const (
	CombingOff CombingMode = iota
	CombingAll
	CombingNoSkin
	CombingNoOuterSurfaces
	CombingInfill
)

// ParseCombingMode parses the setting's textual spelling.
func ParseCombingMode(s string) CombingMode {
	switch s {
	case "all":
		return CombingAll
	case "no-skin", "noskin", "no_skin":
		return CombingNoSkin
	case "no-outer-surfaces", "no_outer_surfaces":
		return CombingNoOuterSurfaces
	case "infill":
		return CombingInfill
	default:
		return CombingOff
	}
}

// Scene is the read-only, process-wide "current slice" state described in
// spec §5/§9: the extruder set, the mesh groups, and the limit_to_extruder
// override map. It is built once at slice start and is read-only
// afterward; the core never mutates it during layer planning, and multiple
// layers may read it concurrently.
type Scene struct {
	Extruders  []*Extruder
	MeshGroups []MeshGroup
	Logger     *log.Logger

	scope *limitScope
	store *Store
}

// MeshGroup is a group of meshes sliced together (spec §6:
// mesh_groups[g].meshes[m]).
type MeshGroup struct {
	Meshes []*Mesh
}

// NewScene constructs an empty scene with n extruders, ready to receive
// settings via the Set methods of the scene, its extruders and its meshes
// before use. logger may be nil, in
// which case log.Default() is used.
func NewScene(extruderCount int, logger *log.Logger) *Scene {
	if logger == nil {
		logger = log.Default()
	}
	scope := &limitScope{limitToExtruder: map[string]*Store{}}
	scn := &Scene{Logger: logger, scope: scope}
	scn.store = newStore(nil, scope)
	for i := 0; i < extruderCount; i++ {
		scn.Extruders = append(scn.Extruders, &Extruder{
			Index: i,
			store: newStore(scn.store, scope),
		})
	}
	return scn
}

// Set assigns a scene-level (global) setting.
func (s *Scene) Set(key, value string) {
	s.store.Set(key, value)
}

// Store exposes the scene-level settings store directly, for generic
// lookups that don't need a typed accessor.
func (s *Scene) Store() *Store { return s.store }

// LimitSetting registers that key must always be resolved through
// extruder's settings regardless of which object the lookup started at
// (the §6 "limit_to_extruder" indirection).
func (s *Scene) LimitSetting(key string, extruder *Extruder) {
	s.scope.limitToExtruder[key] = extruder.store
}

// CombingMode returns the configured combing mode for the scene.
func (s *Scene) CombingMode() CombingMode {
	return ParseCombingMode(s.store.GetStringOr("retraction_combing", "all"))
}
