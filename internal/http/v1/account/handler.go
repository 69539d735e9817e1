package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/roastlog/internal/platform/auth"
	"github.com/janisto/roastlog/internal/roast"
)

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}}

// SignOutInput for POST /auth/signout (no body)
type SignOutInput struct{}

// Register wires the sign-out endpoint. Signing out is the
// present-to-none identity transition: the user's feed is cancelled,
// the mirrored collection dropped, and any in-progress session
// discarded.
func Register(api huma.API, hub *roast.Hub) {
	huma.Register(api, huma.Operation{
		OperationID:   "sign-out",
		Method:        http.MethodPost,
		Path:          "/auth/signout",
		Summary:       "Sign out",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, _ *SignOutInput) (*struct{}, error) {
		user := auth.UserFromContext(ctx)
		if err := hub.SignOut(ctx, user.UID); err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		return nil, nil
	})
}
