package roasts

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	applog "github.com/janisto/roastlog/internal/platform/logging"
	"github.com/janisto/roastlog/internal/roast"
)

// LiveInput for GET /roasts/live (no parameters)
type LiveInput struct{}

// RegisterLive wires the server-sent-events stream that pushes a full
// collection snapshot to the browser every time the remote feed
// replaces it. The first event is the current snapshot, so clients can
// render immediately without a separate list call.
func RegisterLive(api huma.API, hub *roast.Hub) {
	sse.Register(api, huma.Operation{
		OperationID: "live-roasts",
		Method:      http.MethodGet,
		Path:        "/roasts/live",
		Summary:     "Stream collection snapshots",
		Description: "Server-sent events: one 'snapshot' event per remote feed delivery, starting with the current collection.",
		Tags:        []string{"Roasts"},
		Security:    bearerSecurity,
	}, map[string]any{
		"snapshot": ListData{},
	}, func(ctx context.Context, _ *LiveInput, send sse.Sender) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			applog.LogError(ctx, "live stream setup failed", err)
			return
		}
		for snap := range rt.Store.Watch(ctx) {
			page := toHTTPRoasts(snap)
			if err := send.Data(ListData{Roasts: page, Total: len(page)}); err != nil {
				// Client went away; the watcher is torn down via ctx.
				return
			}
		}
	})
}
