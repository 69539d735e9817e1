package session

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	applog "github.com/janisto/roastlog/internal/platform/logging"
	"github.com/janisto/roastlog/internal/platform/timeutil"
	"github.com/janisto/roastlog/internal/roast"
)

// LiveInput for GET /session/live (no parameters)
type LiveInput struct{}

// RegisterLive wires the server-sent-events stream that pushes the
// running timer to the browser, one event per stopwatch second. The
// first event is the current elapsed time, so clients can render the
// timer display immediately.
func RegisterLive(api huma.API, hub *roast.Hub) {
	sse.Register(api, huma.Operation{
		OperationID: "live-session",
		Method:      http.MethodGet,
		Path:        "/session/live",
		Summary:     "Stream elapsed-time ticks",
		Description: "Server-sent events: one 'tick' event per stopwatch second while the roast runs, starting with the current elapsed time.",
		Tags:        []string{"Session"},
		Security:    bearerSecurity,
	}, map[string]any{
		"tick": TickData{},
	}, func(ctx context.Context, _ *LiveInput, send sse.Sender) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			applog.LogError(ctx, "session stream setup failed", err)
			return
		}
		watch := rt.Session.Stopwatch()
		ticks := make(chan int, 1)
		remove := watch.OnTick(func(elapsed int) {
			// A slow client drops the pending tick; the next one carries
			// a fresher value anyway.
			select {
			case <-ticks:
			default:
			}
			ticks <- elapsed
		})
		defer remove()

		elapsed := watch.Elapsed()
		first := TickData{
			Elapsed: elapsed,
			Display: timeutil.ClockDisplay(elapsed),
			Running: watch.Running(),
		}
		if err := send.Data(first); err != nil {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case elapsed := <-ticks:
				tick := TickData{
					Elapsed: elapsed,
					Display: timeutil.ClockDisplay(elapsed),
					Running: true,
				}
				if err := send.Data(tick); err != nil {
					// Client went away; the observer is detached on return.
					return
				}
			}
		}
	})
}
