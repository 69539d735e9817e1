package roast

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// ExportJSON renders the full collection as a pretty-printed UTF-8 JSON
// document for file download. There is no import counterpart.
func ExportJSON(snap Snapshot) ([]byte, error) {
	if snap == nil {
		snap = Snapshot{}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ShareURL builds the informational share link for a profile. Nothing
// server-side resolves it; it is text offered for copying.
func ShareURL(origin, id string) string {
	return fmt.Sprintf("%s/profiles/%s", origin, url.PathEscape(id))
}
