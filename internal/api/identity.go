package api

import (
	"net/http"

	"github.com/ignite/lead-dashboard/internal/pkg/httputil"
)

// userIDHeader carries the caller's identity. The dashboard frontend sets it
// on every request; there is no session layer in front of this API.
const userIDHeader = "X-User-ID"

// requireUserID pulls the caller's user ID off the request, writing a 400
// and returning false when the header is missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		httputil.BadRequest(w, "X-User-ID header is required")
		return "", false
	}
	return userID, true
}
