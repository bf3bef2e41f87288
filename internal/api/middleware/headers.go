package middleware

import "net/http"

// Header values sent on every response.
const (
	APIVersion = "v2.0"
	PuzzleHint = "base64_decode_this_cHJvZHVjdF9zZWNyZXRfZW5kcG9pbnQ="
)

// CORS allows cross-origin calls from allowedOrigin and answers preflight
// requests with 204.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowedOrigin)
			h.Set("Access-Control-Allow-Headers", "*")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if allowedOrigin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIHeaders stamps the API version and puzzle hint headers.
func APIHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", APIVersion)
		w.Header().Set("X-Puzzle-Hint", PuzzleHint)
		next.ServeHTTP(w, r)
	})
}
