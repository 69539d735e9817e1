package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/roastlog/internal/http/v1/account"
	"github.com/janisto/roastlog/internal/http/v1/roasts"
	sessionhandler "github.com/janisto/roastlog/internal/http/v1/session"
	"github.com/janisto/roastlog/internal/platform/auth"
	"github.com/janisto/roastlog/internal/roast"
)

// Register wires all HTTP routes into the provided API router.
func Register(
	api huma.API,
	verifier auth.Verifier,
	hub *roast.Hub,
	shareOrigin string,
) {
	prefix := apiPrefix(api)

	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))

	roasts.Register(api, hub, prefix, shareOrigin)
	roasts.RegisterLive(api, hub)
	sessionhandler.Register(api, hub)
	sessionhandler.RegisterLive(api, hub)
	account.Register(api, hub)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
