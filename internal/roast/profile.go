package roast

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Domain errors
var (
	ErrNoIdentity     = errors.New("no identity signed in")
	ErrNotFound       = errors.New("roast profile not found")
	ErrInvalidProfile = errors.New("invalid roast profile")
	ErrBadTemperature = errors.New("temperature must be a finite number")
)

// Level is the roast level of a profile. The set is fixed; anything
// outside it fails template validation.
type Level string

const (
	LevelLight       Level = "Light"
	LevelMediumLight Level = "Medium-Light"
	LevelMedium      Level = "Medium"
	LevelMediumDark  Level = "Medium-Dark"
	LevelDark        Level = "Dark"
)

// Levels lists the valid roast levels in light-to-dark order.
func Levels() []Level {
	return []Level{LevelLight, LevelMediumLight, LevelMedium, LevelMediumDark, LevelDark}
}

// Valid reports whether l is one of the fixed roast levels.
func (l Level) Valid() bool {
	switch l {
	case LevelLight, LevelMediumLight, LevelMedium, LevelMediumDark, LevelDark:
		return true
	}
	return false
}

// Weight holds the green and roasted bean weights in grams.
type Weight struct {
	Green   float64 `json:"green"`
	Roasted float64 `json:"roasted"`
}

// TemperaturePoint is one (elapsed seconds, temperature, wall clock)
// sample recorded during a roast. Points are immutable once appended.
type TemperaturePoint struct {
	Time        int       `json:"time"`
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

// Profile is a persisted roast record. ID is assigned by the remote
// store on creation and never reassigned.
type Profile struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Bean           string             `json:"bean"`
	RoastLevel     Level              `json:"roastLevel"`
	Notes          string             `json:"notes"`
	FlavorNotes    string             `json:"flavorNotes"`
	StartTime      time.Time          `json:"startTime"`
	EndTime        time.Time          `json:"endTime"`
	Duration       int                `json:"duration"`
	TemperatureLog []TemperaturePoint `json:"temperatureLog"`
	IsFavorite     bool               `json:"isFavorite"`
	Weight         Weight             `json:"weight"`
}

// Template holds the descriptive fields a user fills in before starting
// the timer. A session must have a valid template before it can run.
type Template struct {
	Name       string
	Bean       string
	RoastLevel Level
	Notes      string
	Weight     Weight
}

// Validate checks the required descriptive fields. Notes may be blank.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(t.Bean) == "" {
		return fmt.Errorf("%w: bean is required", ErrInvalidProfile)
	}
	if !t.RoastLevel.Valid() {
		return fmt.Errorf("%w: unknown roast level %q", ErrInvalidProfile, t.RoastLevel)
	}
	if t.Weight.Green <= 0 || t.Weight.Roasted <= 0 {
		return fmt.Errorf("%w: green and roasted weights are required", ErrInvalidProfile)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
