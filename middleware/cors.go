// ABOUTME: Static CORS headers for the gateway endpoint
// ABOUTME: Answers OPTIONS preflight with an empty 200 before any body parsing

package middleware

import "net/http"

// corsHeaders are sent on every response, preflight or not.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// CORS adds the static CORS headers. OPTIONS requests get 200 with no body
// and never reach next, whatever their body contains.
func CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, value := range corsHeaders {
			w.Header().Set(name, value)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
