package session

import (
	"github.com/janisto/roastlog/internal/platform/timeutil"
)

// TemplateView mirrors the prepared roast template.
type TemplateView struct {
	Name       string  `json:"name"       doc:"Roast name"`
	Bean       string  `json:"bean"       doc:"Bean variety"`
	RoastLevel string  `json:"roastLevel" doc:"Roast level"`
	Notes      string  `json:"notes"      doc:"Pre-roast notes"`
	Green      float64 `json:"green"      doc:"Green weight in grams"`
	Roasted    float64 `json:"roasted"    doc:"Roasted weight in grams"`
}

// SampleView is one recorded temperature point.
type SampleView struct {
	Time        int           `json:"time"        doc:"Elapsed seconds when sampled"`
	Temperature float64       `json:"temperature" doc:"Temperature reading"`
	Timestamp   timeutil.Time `json:"timestamp"   doc:"Wall-clock time of the sample"`
}

// View is the full state of the active roast session.
type View struct {
	State     string        `json:"state"     enum:"idle,ready,running" doc:"Session lifecycle state"`
	Running   bool          `json:"running"   doc:"Whether the stopwatch is currently advancing"`
	Elapsed   int           `json:"elapsed"   doc:"Elapsed roast seconds"`
	Display   string        `json:"display"   doc:"Elapsed time formatted for the timer display" example:"5:20"`
	StartTime timeutil.Time `json:"startTime" doc:"When the roast started (zero when not started)"`
	Template  *TemplateView `json:"template,omitempty" doc:"Prepared template, when present"`
	Samples   []SampleView  `json:"samples"   doc:"Temperature samples recorded so far"`
}

// StateOutput wraps the session view for all session endpoints.
type StateOutput struct {
	Body View
}

// StopData reports the outcome of a stop call.
type StopData struct {
	Committed bool   `json:"committed" doc:"Whether the roast was persisted"`
	Duration  int    `json:"duration"  doc:"Final roast duration in seconds"`
	Reason    string `json:"reason,omitempty" doc:"Why nothing was committed, when applicable"`
}

// StopOutput for POST /session/stop
type StopOutput struct {
	Body StopData
}

// TickData is one elapsed-time push on the live session stream.
type TickData struct {
	Elapsed int    `json:"elapsed" doc:"Elapsed roast seconds"`
	Display string `json:"display" doc:"Elapsed time formatted for the timer display" example:"5:20"`
	Running bool   `json:"running" doc:"Whether the stopwatch is currently advancing"`
}
