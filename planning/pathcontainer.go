package planning

import "layercore/geometry"

// PathContainer is an ordered sequence of motion records being built up for
// one extruder plan (spec C6).
type PathContainer struct {
	paths []*MotionRecord
}

// Paths returns the current records, in order.
func (c *PathContainer) Paths() []*MotionRecord { return c.paths }

// LatestWithConfig returns the tail path if it is not done and its config,
// mesh ID, flow ratio, spiralize flag and speed factor match, otherwise
// appends and returns a fresh path (spec §4.6).
func (c *PathContainer) LatestWithConfig(cfg FeatureConfig, flow geometry.Ratio, spiralize bool, speedFactor float64, meshID string) *MotionRecord {
	if n := len(c.paths); n > 0 {
		tail := c.paths[n-1]
		if !tail.Done && tail.Config.Equal(cfg) && tail.MeshID == meshID &&
			tail.FlowRatio == flow && tail.Spiralize == spiralize && tail.SpeedFactor == speedFactor {
			return tail
		}
	}
	rec := &MotionRecord{
		Kind:        KindExtrusion,
		Config:      cfg,
		MeshID:      meshID,
		FlowRatio:   flow,
		Spiralize:   spiralize,
		SpeedFactor: speedFactor,
	}
	c.paths = append(c.paths, rec)
	return rec
}

// AppendExtrusion pushes point onto the tail path.
func (c *PathContainer) AppendExtrusion(point geometry.Point) {
	if len(c.paths) == 0 {
		return
	}
	tail := c.paths[len(c.paths)-1]
	tail.Points = append(tail.Points, point)
}

// ForceNewPathStart closes the tail path so the next LatestWithConfig call
// cannot merge into it.
func (c *PathContainer) ForceNewPathStart() {
	if n := len(c.paths); n > 0 {
		c.paths[n-1].Done = true
	}
}

// AppendTravel appends a standalone travel record (never merged with a
// neighboring travel; travels are always their own record).
func (c *PathContainer) AppendTravel(rec *MotionRecord) {
	rec.Kind = KindTravel
	rec.Config.Tag = FeatureTravel
	c.paths = append(c.paths, rec)
}

// SetFan sets the fan override on rec.
func SetFan(rec *MotionRecord, value geometry.Ratio) { rec.FanSpeed = &value }

// SetRetract sets rec's retract flag.
func SetRetract(rec *MotionRecord, retract bool) { rec.Retract = retract }

// SetZHop sets rec's z-hop flag.
func SetZHop(rec *MotionRecord, hop bool) { rec.PerformZHop = hop }

// SetPrime sets rec's prime flag.
func SetPrime(rec *MotionRecord, prime bool) { rec.PerformPrime = prime }
