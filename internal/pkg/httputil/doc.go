// Package httputil provides shared HTTP response/request utilities for the
// dashboard API handlers.
//
// Handlers use these helpers instead of writing raw http.ResponseWriter
// calls, keeping JSON envelopes, error payloads, and attachment downloads
// consistent across all endpoints.
package httputil
