package session

// PrepareInput for POST /session: the roast template filled in before
// the timer starts.
type PrepareInput struct {
	Body struct {
		Name       string `json:"name"       minLength:"1" maxLength:"200" required:"true" doc:"Roast name"   example:"Ethiopia Yirgacheffe"`
		Bean       string `json:"bean"       minLength:"1" maxLength:"200" required:"true" doc:"Bean variety" example:"Arabica"`
		RoastLevel string `json:"roastLevel" enum:"Light,Medium-Light,Medium,Medium-Dark,Dark" required:"true" doc:"Roast level" example:"Medium"`
		Notes      string `json:"notes"      maxLength:"2000" doc:"Pre-roast notes"`
		Weight     struct {
			Green   float64 `json:"green"   exclusiveMinimum:"0" required:"true" doc:"Green weight in grams"   example:"100"`
			Roasted float64 `json:"roasted" exclusiveMinimum:"0" required:"true" doc:"Roasted weight in grams" example:"85"`
		} `json:"weight" required:"true" doc:"Green and roasted weights"`
	}
}

// StateInput for GET /session (no parameters)
type StateInput struct{}

// StartInput for POST /session/start (no body)
type StartInput struct{}

// PauseInput for POST /session/pause (no body)
type PauseInput struct{}

// ResumeInput for POST /session/resume (no body)
type ResumeInput struct{}

// SampleInput for POST /session/samples: one temperature reading taken
// at the current elapsed second.
type SampleInput struct {
	Body struct {
		Temperature float64 `json:"temperature" required:"true" doc:"Bean temperature reading" example:"180"`
	}
}

// StopInput for POST /session/stop (no body)
type StopInput struct{}

// DiscardInput for DELETE /session (no body)
type DiscardInput struct{}
