package roast

// TemperatureLog is the append-only, insertion-ordered sequence of
// temperature samples collected during one active roast session. It is
// exclusively owned by that session; callers outside the session only
// ever see copies.
type TemperatureLog struct {
	points []TemperaturePoint
}

// NewTemperatureLog creates an empty log.
func NewTemperatureLog() *TemperatureLog {
	return &TemperatureLog{}
}

// Append adds a point to the end. There is no overwrite and no
// de-duplication. Points with a non-finite temperature are rejected.
func (l *TemperatureLog) Append(p TemperaturePoint) error {
	if !finite(p.Temperature) {
		return ErrBadTemperature
	}
	l.points = append(l.points, p)
	return nil
}

// Clear empties the log.
func (l *TemperatureLog) Clear() {
	l.points = nil
}

// Len returns the number of recorded points.
func (l *TemperatureLog) Len() int {
	return len(l.points)
}

// Points returns a copy of the full ordered sequence. Mutating the
// returned slice does not affect the log.
func (l *TemperatureLog) Points() []TemperaturePoint {
	out := make([]TemperaturePoint, len(l.points))
	copy(out, l.points)
	return out
}
