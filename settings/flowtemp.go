package settings

import "layercore/geometry"

// FlowTempGraph matches a flow rate to a temperature through piecewise
// linear interpolation between data points, ported in meaning from
// original_source/src/settings/FlowTempGraph.cpp. Scenario D in spec §8
// is this type's contract.
type FlowTempGraph struct {
	Data []FlowTempDatum
}

// FlowTempDatum is one (flow, temperature) anchor point, flow in mm^3/s.
type FlowTempDatum struct {
	Flow float64
	Temp geometry.Temperature
}

// GetTemp returns the temperature for the given flow. For flows outside
// the graphed range it returns the nearest endpoint's temperature. An
// empty graph, or flowDependentTemperature being false, returns
// defaultTemp unchanged.
func (g *FlowTempGraph) GetTemp(flow float64, defaultTemp geometry.Temperature, flowDependentTemperature bool) geometry.Temperature {
	if g == nil || !flowDependentTemperature || len(g.Data) == 0 {
		return defaultTemp
	}
	if len(g.Data) == 1 {
		return g.Data[0].Temp
	}
	if flow < g.Data[0].Flow {
		return g.Data[0].Temp
	}

	last := g.Data[0]
	for _, d := range g.Data[1:] {
		if d.Flow >= flow {
			frac := (flow - last.Flow) / (d.Flow - last.Flow)
			return last.Temp + geometry.Temperature(float64(d.Temp-last.Temp)*frac)
		}
		last = d
	}
	return g.Data[len(g.Data)-1].Temp
}
