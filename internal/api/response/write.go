package response

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/mindmaze/internal/api/apierr"
)

// JSON writes a JSON response. The body is encoded before any header is
// sent so an unencodable value becomes an INTERNAL_ERROR response instead of
// a truncated one.
func JSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		apierr.WriteError(w, apierr.NewInternalError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
