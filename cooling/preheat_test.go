package cooling

import (
	"testing"
)

func TestTimeToGoFromTempToTempHeatingUsesHeatUpSpeed(t *testing.T) {
	e := testExtruder(t)
	d := TimeToGoFromTempToTemp(e, 150, 200, false)
	want := (200 - 150) / float64(e.NozzleHeatUpSpeed())
	if float64(d) != want {
		t.Errorf("expected heating time %v, got %v", want, d)
	}
}

func TestTimeToGoFromTempToTempCoolingUsesCoolDownSpeed(t *testing.T) {
	e := testExtruder(t)
	d := TimeToGoFromTempToTemp(e, 200, 150, false)
	want := (200 - 150) / float64(e.NozzleCoolDownSpeed())
	if float64(d) != want {
		t.Errorf("expected cooling time %v, got %v", want, d)
	}
}

func TestTimeToGoFromTempToTempNeverNegative(t *testing.T) {
	e := testExtruder(t)
	d := TimeToGoFromTempToTemp(e, 200, 200, false)
	if d < 0 {
		t.Errorf("expected a non-negative duration for equal temps, got %v", d)
	}
}

func TestWarmUpPointAfterCoolDownAmpleWindowReachesStandby(t *testing.T) {
	e := testExtruder(t)
	// A generous window should let the nozzle fully cool to standby before
	// warming back up, so LowestTemperature should equal tempMid.
	result := WarmUpPointAfterCoolDown(e, 1000, 200, 150, 200, false)
	if result.LowestTemperature != 150 {
		t.Errorf("expected the nozzle to reach standby temperature 150 in an ample window, got %v", result.LowestTemperature)
	}
}

func TestWarmUpPointAfterCoolDownTightWindowNeverReachesStandby(t *testing.T) {
	e := testExtruder(t)
	result := WarmUpPointAfterCoolDown(e, 1, 200, 150, 200, false)
	if result.LowestTemperature <= 150 {
		t.Errorf("expected a tight window to keep the lowest temperature above standby, got %v", result.LowestTemperature)
	}
}

func TestCoolDownPointAfterWarmUpAmpleWindowReachesStandby(t *testing.T) {
	e := testExtruder(t)
	result := CoolDownPointAfterWarmUp(e, 1000, 200, 150, 200, false)
	if result.HighestTemperature != 150 {
		t.Errorf("expected the nozzle to settle at standby temperature 150 in an ample window, got %v", result.HighestTemperature)
	}
}

func TestMinMaxTempHelpers(t *testing.T) {
	if minTemp(100, 200) != 100 {
		t.Error("minTemp should return the smaller value")
	}
	if maxTemp(100, 200) != 200 {
		t.Error("maxTemp should return the larger value")
	}
}
