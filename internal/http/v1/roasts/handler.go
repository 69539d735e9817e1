package roasts

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/roastlog/internal/pagination"
	"github.com/janisto/roastlog/internal/platform/auth"
	"github.com/janisto/roastlog/internal/roast"
)

const cursorType = "roast"

var bearerSecurity = []map[string][]string{{"bearerAuth": {}}}

func identityOf(ctx context.Context) roast.Identity {
	user := auth.UserFromContext(ctx)
	return roast.Identity{UID: user.UID, DisplayName: user.DisplayName}
}

// Register wires the roast collection endpoints into the provided API
// router. Reads serve from the store's mirrored snapshot; writes go to
// the remote store and surface in the snapshot via the feed.
func Register(api huma.API, hub *roast.Hub, prefix, shareOrigin string) {
	huma.Register(api, huma.Operation{
		OperationID: "list-roasts",
		Method:      http.MethodGet,
		Path:        "/roasts",
		Summary:     "List roast profiles",
		Description: "Returns the signed-in user's roasts, newest first, with cursor pagination.",
		Tags:        []string{"Roasts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RoastsListInput) (*RoastsListOutput, error) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}

		cursor, err := pagination.DecodeCursor(input.Cursor)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor format")
		}
		if cursor.Type != "" && cursor.Type != cursorType {
			return nil, huma.Error400BadRequest("cursor type mismatch")
		}

		all := toHTTPRoasts(rt.Store.Snapshot())
		if input.Favorites {
			all = slices.DeleteFunc(all, func(r Roast) bool { return !r.IsFavorite })
		}

		query := url.Values{}
		if input.Favorites {
			query.Set("favorites", "true")
		}

		result := pagination.Paginate(
			all,
			cursor,
			input.DefaultLimit(),
			cursorType,
			func(r Roast) string { return r.ID },
			prefix+"/roasts",
			query,
		)

		return &RoastsListOutput{
			Link: result.LinkHeader,
			Body: ListData{
				Roasts: result.Items,
				Total:  result.Total,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-roast",
		Method:      http.MethodGet,
		Path:        "/roasts/{id}",
		Summary:     "Get one roast profile",
		Tags:        []string{"Roasts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RoastGetInput) (*RoastGetOutput, error) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		p, ok := rt.Store.Get(input.ID)
		if !ok {
			return nil, huma.Error404NotFound("roast not found")
		}
		return &RoastGetOutput{Body: toHTTPRoast(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-roast",
		Method:        http.MethodPatch,
		Path:          "/roasts/{id}",
		Summary:       "Update a roast profile",
		Description:   "Edits fields on an owned roast. The weight structure is replaced wholesale, never merged. The change appears in the collection once the feed delivers it.",
		Tags:          []string{"Roasts"},
		DefaultStatus: http.StatusAccepted,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *RoastUpdateInput) (*RoastUpdateOutput, error) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		params := roast.UpdateParams{
			Name:        input.Body.Name,
			Bean:        input.Body.Bean,
			Notes:       input.Body.Notes,
			FlavorNotes: input.Body.FlavorNotes,
		}
		if input.Body.RoastLevel != nil {
			level := roast.Level(*input.Body.RoastLevel)
			params.RoastLevel = &level
		}
		if input.Body.Weight != nil {
			params.Weight = &roast.Weight{
				Green:   input.Body.Weight.Green,
				Roasted: input.Body.Weight.Roasted,
			}
		}
		if err := rt.Store.Update(ctx, input.ID, params); err != nil {
			return nil, mapStoreError(err)
		}
		return &RoastUpdateOutput{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-roast",
		Method:        http.MethodDelete,
		Path:          "/roasts/{id}",
		Summary:       "Delete a roast profile",
		Description:   "Permanently deletes an owned roast. Irreversible; requires confirm=true.",
		Tags:          []string{"Roasts"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *RoastDeleteInput) (*struct{}, error) {
		if !input.Confirm {
			return nil, huma.Error422UnprocessableEntity("deletion must be confirmed")
		}
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		if err := rt.Store.Delete(ctx, input.ID); err != nil {
			return nil, mapStoreError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "favorite-roast",
		Method:        http.MethodPost,
		Path:          "/roasts/{id}/favorite",
		Summary:       "Toggle the favorite flag",
		Description:   "Flips the favorite flag from the caller's last-seen value. Last write wins on concurrent toggles.",
		Tags:          []string{"Roasts"},
		DefaultStatus: http.StatusAccepted,
		Security:      bearerSecurity,
	}, func(ctx context.Context, input *RoastFavoriteInput) (*RoastFavoriteOutput, error) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		if err := rt.Store.ToggleFavorite(ctx, input.ID, input.Body.IsFavorite); err != nil {
			return nil, mapStoreError(err)
		}
		return &RoastFavoriteOutput{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "share-roast",
		Method:      http.MethodGet,
		Path:        "/roasts/{id}/share",
		Summary:     "Get a shareable link",
		Description: "Returns the informational share URL for a roast. Nothing resolves it server-side.",
		Tags:        []string{"Roasts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, input *RoastShareInput) (*RoastShareOutput, error) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		if _, ok := rt.Store.Get(input.ID); !ok {
			return nil, huma.Error404NotFound("roast not found")
		}
		return &RoastShareOutput{
			Body: ShareData{URL: roast.ShareURL(shareOrigin, input.ID)},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "export-roasts",
		Method:      http.MethodGet,
		Path:        "/roasts/export",
		Summary:     "Export all roast profiles",
		Description: "Downloads the full collection as pretty-printed JSON. There is no import.",
		Tags:        []string{"Roasts"},
		Security:    bearerSecurity,
	}, func(ctx context.Context, _ *RoastsExportInput) (*RoastsExportOutput, error) {
		rt, err := hub.Runtime(ctx, identityOf(ctx))
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		data, err := roast.ExportJSON(rt.Store.Snapshot())
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}
		return &RoastsExportOutput{
			ContentType:        "application/json; charset=utf-8",
			ContentDisposition: `attachment; filename="roasts.json"`,
			Body:               data,
		}, nil
	})
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, roast.ErrNoIdentity):
		return huma.Error401Unauthorized("not signed in")
	case errors.Is(err, roast.ErrNotFound):
		return huma.Error404NotFound("roast not found")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
