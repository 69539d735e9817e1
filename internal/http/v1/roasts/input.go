package roasts

import (
	"github.com/janisto/roastlog/internal/pagination"
)

// RoastsListInput for GET /roasts
type RoastsListInput struct {
	pagination.Params
	Favorites bool `query:"favorites" doc:"Only return favorited roasts"`
}

// RoastGetInput for GET /roasts/{id}
type RoastGetInput struct {
	ID string `path:"id" maxLength:"128" doc:"Roast profile ID"`
}

// RoastUpdateInput for PATCH /roasts/{id}.
//
// weight, when present, replaces the stored weight pair wholesale; send
// both green and roasted even when editing only one.
type RoastUpdateInput struct {
	ID   string `path:"id" maxLength:"128" doc:"Roast profile ID"`
	Body struct {
		Name        *string `json:"name,omitempty"        minLength:"1" maxLength:"200" doc:"Roast name"`
		Bean        *string `json:"bean,omitempty"        minLength:"1" maxLength:"200" doc:"Bean variety"`
		RoastLevel  *string `json:"roastLevel,omitempty"  enum:"Light,Medium-Light,Medium,Medium-Dark,Dark" doc:"Roast level"`
		Notes       *string `json:"notes,omitempty"       maxLength:"2000" doc:"Pre-roast notes"`
		FlavorNotes *string `json:"flavorNotes,omitempty" maxLength:"2000" doc:"Post-roast flavor notes"`
		Weight      *Weight `json:"weight,omitempty"      doc:"Replacement weight pair (whole structure)"`
	}
}

// RoastDeleteInput for DELETE /roasts/{id}. Deletion is irreversible;
// the confirm flag is the caller-side confirmation step.
type RoastDeleteInput struct {
	ID      string `path:"id" maxLength:"128" doc:"Roast profile ID"`
	Confirm bool   `query:"confirm" doc:"Must be true; guards against accidental deletes"`
}

// RoastFavoriteInput for POST /roasts/{id}/favorite. The body carries
// the caller's last-seen favorite value; the toggle flips it without
// re-reading the record.
type RoastFavoriteInput struct {
	ID   string `path:"id" maxLength:"128" doc:"Roast profile ID"`
	Body struct {
		IsFavorite bool `json:"isFavorite" doc:"Current favorite value as seen by the caller"`
	}
}

// RoastShareInput for GET /roasts/{id}/share
type RoastShareInput struct {
	ID string `path:"id" maxLength:"128" doc:"Roast profile ID"`
}

// RoastsExportInput for GET /roasts/export (no parameters)
type RoastsExportInput struct{}
