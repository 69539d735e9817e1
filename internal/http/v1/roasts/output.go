package roasts

// ListData is the body of the list response.
type ListData struct {
	Roasts []Roast `json:"roasts" doc:"Page of roast profiles, newest first"`
	Total  int     `json:"total"  doc:"Total number of roasts in the collection"`
}

// RoastsListOutput for GET /roasts
type RoastsListOutput struct {
	Link string `header:"Link" doc:"Pagination links (RFC 8288)"`
	Body ListData
}

// RoastGetOutput for GET /roasts/{id}
type RoastGetOutput struct {
	Body Roast
}

// RoastUpdateOutput for PATCH /roasts/{id} (202 Accepted). The edit is
// durable remotely; the collection reflects it once the feed delivers
// the next snapshot, so no body is returned.
type RoastUpdateOutput struct{}

// RoastFavoriteOutput for POST /roasts/{id}/favorite (202 Accepted).
type RoastFavoriteOutput struct{}

// ShareData carries the informational share link.
type ShareData struct {
	URL string `json:"url" doc:"Shareable link for this roast" example:"https://roastlog.app/profiles/abc123"`
}

// RoastShareOutput for GET /roasts/{id}/share
type RoastShareOutput struct {
	Body ShareData
}

// RoastsExportOutput for GET /roasts/export: a pretty-printed JSON
// document offered as a file download.
type RoastsExportOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}
