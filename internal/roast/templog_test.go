package roast

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestTemperatureLogAppendKeepsOrder(t *testing.T) {
	log := NewTemperatureLog()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	readings := []TemperaturePoint{
		{Time: 30, Temperature: 150.0, Timestamp: base.Add(30 * time.Second)},
		{Time: 60, Temperature: 165.5, Timestamp: base.Add(60 * time.Second)},
		{Time: 60, Temperature: 166.0, Timestamp: base.Add(61 * time.Second)},
		{Time: 90, Temperature: 178.2, Timestamp: base.Add(90 * time.Second)},
	}
	for _, p := range readings {
		if err := log.Append(p); err != nil {
			t.Fatalf("unexpected append error: %v", err)
		}
	}

	if log.Len() != 4 {
		t.Fatalf("expected 4 points, got %d", log.Len())
	}
	points := log.Points()
	for i, p := range points {
		if p != readings[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, readings[i], p)
		}
	}
	// Duplicate elapsed seconds are kept, not deduplicated.
	if points[1].Time != 60 || points[2].Time != 60 {
		t.Error("expected both samples at second 60 to be retained")
	}
}

func TestTemperatureLogRejectsNonFinite(t *testing.T) {
	log := NewTemperatureLog()

	for _, temp := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := log.Append(TemperaturePoint{Time: 10, Temperature: temp})
		if !errors.Is(err, ErrBadTemperature) {
			t.Errorf("temperature %v: expected ErrBadTemperature, got %v", temp, err)
		}
	}
	if log.Len() != 0 {
		t.Errorf("expected rejected samples to leave the log empty, got %d", log.Len())
	}
}

func TestTemperatureLogClear(t *testing.T) {
	log := NewTemperatureLog()
	_ = log.Append(TemperaturePoint{Time: 5, Temperature: 120})
	log.Clear()
	if log.Len() != 0 {
		t.Errorf("expected empty log after Clear, got %d", log.Len())
	}
}

func TestTemperatureLogPointsIsCopy(t *testing.T) {
	log := NewTemperatureLog()
	_ = log.Append(TemperaturePoint{Time: 5, Temperature: 120})

	points := log.Points()
	points[0].Temperature = 999

	if got := log.Points()[0].Temperature; got != 120 {
		t.Errorf("mutating the returned slice leaked into the log: %v", got)
	}
}
