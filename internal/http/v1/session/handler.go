package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/roastlog/internal/platform/auth"
	"github.com/janisto/roastlog/internal/platform/timeutil"
	"github.com/janisto/roastlog/internal/roast"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}}

func identityOf(ctx context.Context) roast.Identity {
	user := auth.UserFromContext(ctx)
	return roast.Identity{UID: user.UID, DisplayName: user.DisplayName}
}

func toView(s *roast.Session) View {
	v := View{
		State:     string(s.State()),
		Running:   s.Stopwatch().Running(),
		Elapsed:   s.Stopwatch().Elapsed(),
		StartTime: timeutil.NewTime(s.StartTime()),
	}
	v.Display = timeutil.ClockDisplay(v.Elapsed)
	if t := s.Template(); t != nil {
		v.Template = &TemplateView{
			Name:       t.Name,
			Bean:       t.Bean,
			RoastLevel: string(t.RoastLevel),
			Notes:      t.Notes,
			Green:      t.Weight.Green,
			Roasted:    t.Weight.Roasted,
		}
	}
	samples := s.Samples()
	v.Samples = make([]SampleView, len(samples))
	for i, p := range samples {
		v.Samples[i] = SampleView{
			Time:        p.Time,
			Temperature: p.Temperature,
			Timestamp:   timeutil.NewTime(p.Timestamp),
		}
	}
	return v
}

// Register wires the active-session endpoints. Each signed-in user has
// exactly one session; all endpoints operate on it.
func Register(api huma.API, hub *roast.Hub) {
	session := func(ctx context.Context) (*roast.Session, error) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		return rt.Session, nil
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/session",
		Summary:     "Get the active roast session",
		Tags:        []string{"Session"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *StateInput) (*StateOutput, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		return &StateOutput{Body: toView(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "prepare-session",
		Method:      http.MethodPost,
		Path:        "/session",
		Summary:     "Prepare a roast template",
		Description: "Fills in the descriptive fields and weights before the timer starts. Moves the session to ready.",
		Tags:        []string{"Session"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *PrepareInput) (*StateOutput, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		err = s.Prepare(roast.Template{
			Name:       input.Body.Name,
			Bean:       input.Body.Bean,
			RoastLevel: roast.Level(input.Body.RoastLevel),
			Notes:      input.Body.Notes,
			Weight: roast.Weight{
				Green:   input.Body.Weight.Green,
				Roasted: input.Body.Weight.Roasted,
			},
		})
		if err != nil {
			if errors.Is(err, roast.ErrInvalidProfile) {
				return nil, huma.Error422UnprocessableEntity(err.Error())
			}
			return nil, huma.Error500InternalServerError("internal error")
		}
		return &StateOutput{Body: toView(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/session/start",
		Summary:     "Start the roast timer",
		Description: "Begins the roast: resets the stopwatch and sample log, records the start time. Requires a prepared template.",
		Tags:        []string{"Session"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *StartInput) (*StateOutput, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		if !s.Start() {
			return nil, huma.Error409Conflict("no roast template prepared")
		}
		return &StateOutput{Body: toView(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "pause-session",
		Method:      http.MethodPost,
		Path:        "/session/pause",
		Summary:     "Pause the roast timer",
		Description: "Suspends the stopwatch; the session itself stays running and can resume.",
		Tags:        []string{"Session"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *PauseInput) (*StateOutput, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		s.Pause()
		return &StateOutput{Body: toView(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resume-session",
		Method:      http.MethodPost,
		Path:        "/session/resume",
		Summary:     "Resume the roast timer",
		Tags:        []string{"Session"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *ResumeInput) (*StateOutput, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		s.Resume()
		return &StateOutput{Body: toView(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "record-sample",
		Method:        http.MethodPost,
		Path:          "/session/samples",
		Summary:       "Record a temperature sample",
		Description:   "Appends a temperature reading at the current elapsed second. Only valid while the session is running.",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusCreated,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *SampleInput) (*StateOutput, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.Record(input.Body.Temperature); err != nil {
			switch {
			case errors.Is(err, roast.ErrBadTemperature):
				return nil, huma.Error422UnprocessableEntity("temperature must be a finite number")
			case errors.Is(err, roast.ErrInvalidProfile):
				return nil, huma.Error409Conflict("session is not running")
			default:
				return nil, huma.Error500InternalServerError("internal error")
			}
		}
		return &StateOutput{Body: toView(s)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "stop-session",
		Method:      http.MethodPost,
		Path:        "/session/stop",
		Summary:     "Stop the roast and persist it",
		Description: "Finalizes the roast and hands it to the remote store as one create. No-op without samples; the record appears in the collection once the feed delivers it.",
		Tags:        []string{"Session"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *StopInput) (*StopOutput, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		duration := s.Stopwatch().Elapsed()
		committed, err := s.Stop(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to save roast")
		}
		out := StopData{Committed: committed, Duration: duration}
		if !committed {
			switch s.State() {
			case roast.StateRunning:
				out.Reason = "no samples recorded"
			default:
				out.Reason = "session is not running"
			}
		}
		return &StopOutput{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "discard-session",
		Method:        http.MethodDelete,
		Path:          "/session",
		Summary:       "Discard the active session",
		Description:   "Abandons the in-progress roast without persisting anything.",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, _ *DiscardInput) (*struct{}, error) {
		s, err := session(ctx)
		if err != nil {
			return nil, err
		}
		s.Discard()
		return nil, nil
	})
}
