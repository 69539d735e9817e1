package roasts

import (
	"github.com/janisto/roastlog/internal/platform/timeutil"
	"github.com/janisto/roastlog/internal/roast"
)

// Weight is the green/roasted weight pair in grams. It is always sent
// and stored as a whole: a PATCH carrying weight replaces both values.
type Weight struct {
	Green   float64 `json:"green"   minimum:"0" doc:"Green bean weight in grams"   example:"100"`
	Roasted float64 `json:"roasted" minimum:"0" doc:"Roasted bean weight in grams" example:"85"`
}

// TemperaturePoint is one recorded sample of a roast.
type TemperaturePoint struct {
	Time        int           `json:"time"        doc:"Elapsed roast time in seconds" example:"60"`
	Temperature float64       `json:"temperature" doc:"Bean temperature"              example:"180"`
	Timestamp   timeutil.Time `json:"timestamp"   doc:"Wall-clock time of the sample"`
}

// Roast represents a persisted roast profile response.
type Roast struct {
	ID             string             `json:"id"             doc:"Unique identifier"`
	Name           string             `json:"name"           doc:"Roast name"            example:"Ethiopia Yirgacheffe"`
	Bean           string             `json:"bean"           doc:"Bean variety"          example:"Arabica"`
	RoastLevel     string             `json:"roastLevel"     doc:"Roast level"           example:"Medium"`
	Notes          string             `json:"notes"          doc:"Pre-roast notes"`
	FlavorNotes    string             `json:"flavorNotes"    doc:"Post-roast flavor notes"`
	StartTime      timeutil.Time      `json:"startTime"      doc:"When the roast started"`
	EndTime        timeutil.Time      `json:"endTime"        doc:"When the roast stopped"`
	Duration       int                `json:"duration"       doc:"Roast duration in seconds" example:"320"`
	TemperatureLog []TemperaturePoint `json:"temperatureLog" doc:"Ordered temperature samples"`
	IsFavorite     bool               `json:"isFavorite"     doc:"Favorite flag"`
	Weight         Weight             `json:"weight"         doc:"Green and roasted weights"`
}

func toHTTPRoast(p roast.Profile) Roast {
	points := make([]TemperaturePoint, len(p.TemperatureLog))
	for i, tp := range p.TemperatureLog {
		points[i] = TemperaturePoint{
			Time:        tp.Time,
			Temperature: tp.Temperature,
			Timestamp:   timeutil.NewTime(tp.Timestamp),
		}
	}
	return Roast{
		ID:             p.ID,
		Name:           p.Name,
		Bean:           p.Bean,
		RoastLevel:     string(p.RoastLevel),
		Notes:          p.Notes,
		FlavorNotes:    p.FlavorNotes,
		StartTime:      timeutil.NewTime(p.StartTime),
		EndTime:        timeutil.NewTime(p.EndTime),
		Duration:       p.Duration,
		TemperatureLog: points,
		IsFavorite:     p.IsFavorite,
		Weight:         Weight{Green: p.Weight.Green, Roasted: p.Weight.Roasted},
	}
}

func toHTTPRoasts(snap roast.Snapshot) []Roast {
	out := make([]Roast, len(snap))
	for i, p := range snap {
		out[i] = toHTTPRoast(p)
	}
	return out
}
